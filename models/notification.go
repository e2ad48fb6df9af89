package models

import "time"

// NotificationLevel mirrors the toast classes shown by the front end.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a one-shot, auto-dismissing message raised at a stream boundary.
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	Stream    string            `json:"stream,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// IsDismissed reports whether the notification has auto-dismissed at the given time.
func (n Notification) IsDismissed(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
