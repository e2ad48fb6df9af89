package handlers

import (
	"github.com/fenilmodi00/ipo-allotment-tracker/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Notifier *services.NotificationService
}

func NewNotificationHandler(notifier *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifier: notifier}
}

// GetNotifications returns undismissed notifications, or the full history with ?all=true
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	notifications := h.Notifier.Active()
	if c.QueryBool("all") {
		notifications = h.Notifier.History()
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    notifications,
	})
}
