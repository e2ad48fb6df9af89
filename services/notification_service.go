package services

import (
	"sync"
	"time"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxNotificationHistory = 50

// NotificationService collects one-shot user notifications raised at stream boundaries.
// Each notification auto-dismisses after the configured TTL.
type NotificationService struct {
	mutex   sync.RWMutex
	ttl     time.Duration
	history []models.Notification
	now     func() time.Time
}

// NewNotificationService creates a notification service with the given auto-dismiss TTL
func NewNotificationService(ttl time.Duration) *NotificationService {
	return &NotificationService{
		ttl:     ttl,
		history: make([]models.Notification, 0, maxNotificationHistory),
		now:     time.Now,
	}
}

// Publish raises a notification
func (n *NotificationService) Publish(level models.NotificationLevel, stream, message string) models.Notification {
	createdAt := n.now()
	notification := models.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Stream:    stream,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(n.ttl),
	}

	n.mutex.Lock()
	if len(n.history) >= maxNotificationHistory {
		n.history = n.history[1:]
	}
	n.history = append(n.history, notification)
	n.mutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"component": "NotificationService",
		"level":     level,
		"stream":    stream,
	}).Debug(message)

	return notification
}

// Active returns notifications that have not yet auto-dismissed, oldest first
func (n *NotificationService) Active() []models.Notification {
	now := n.now()

	n.mutex.RLock()
	defer n.mutex.RUnlock()

	active := make([]models.Notification, 0)
	for _, notification := range n.history {
		if !notification.IsDismissed(now) {
			active = append(active, notification)
		}
	}
	return active
}

// History returns every retained notification, dismissed or not
func (n *NotificationService) History() []models.Notification {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	history := make([]models.Notification, len(n.history))
	copy(history, n.history)
	return history
}

// CountByLevel counts retained notifications of a level
func (n *NotificationService) CountByLevel(level models.NotificationLevel) int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	count := 0
	for _, notification := range n.history {
		if notification.Level == level {
			count++
		}
	}
	return count
}
