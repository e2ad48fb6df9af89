package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every route handler the API serves
type Handlers struct {
	IPO          *IPOHandler
	Selection    *SelectionHandler
	Market       *MarketHandler
	Notification *NotificationHandler
	Admin        *AdminHandler
}

// SetupRoutes registers the health check and the /api/v1 routes on app
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	api := app.Group("/api/v1")

	// IPO Routes
	api.Get("/ipos", h.IPO.GetIPOs)
	api.Get("/ipos/:id/allotment-link", h.IPO.GetAllotmentLink)
	api.Get("/ipos/:id/allotment", h.IPO.RedirectToAllotment)
	api.Get("/ipos/:id", h.IPO.GetIPOByID)
	api.Get("/registrars", h.IPO.GetRegistrars)

	// Selection Routes
	api.Get("/selection", h.Selection.GetSelection)
	api.Put("/selection", h.Selection.PutSelection)
	api.Delete("/selection", h.Selection.DeleteSelection)

	// Market Routes
	api.Get("/market/feed", h.Market.GetFeed)
	api.Get("/market/discover", h.Market.DiscoverIPOs)

	api.Get("/notifications", h.Notification.GetNotifications)

	// Admin Routes
	admin := api.Group("/admin")
	admin.Post("/refresh", h.Admin.TriggerRefresh)
	admin.Get("/metrics", h.Admin.GetMetrics)
}
