package handlers

import (
	"context"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/fenilmodi00/ipo-allotment-tracker/services"
	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Discoverer finds IPOs that are not yet in the sheet
type Discoverer interface {
	Enabled() bool
	DiscoverIPOs(ctx context.Context) ([]*models.IPORecord, error)
}

type MarketHandler struct {
	State      *services.DashboardState
	Discoverer Discoverer
}

func NewMarketHandler(state *services.DashboardState, discoverer Discoverer) *MarketHandler {
	return &MarketHandler{State: state, Discoverer: discoverer}
}

func (h *MarketHandler) GetFeed(c *fiber.Ctx) error {
	_, lastRefreshed := h.State.LastRefreshed()
	return c.JSON(fiber.Map{
		"success":        true,
		"data":           h.State.Feed(),
		"enabled":        h.Discoverer.Enabled(),
		"last_refreshed": lastRefreshed,
	})
}

// DiscoverIPOs returns AI-discovered IPOs. They are informational and never
// merged into the working collection.
func (h *MarketHandler) DiscoverIPOs(c *fiber.Ctx) error {
	if !h.Discoverer.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "AI market intelligence is not configured",
		})
	}

	ipos, err := h.Discoverer.DiscoverIPOs(c.UserContext())
	if err != nil {
		logrus.WithError(err).Warn("IPO discovery failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   shared.UserMessage(err, "Could not discover IPOs"),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    ipos,
		"count":   len(ipos),
	})
}
