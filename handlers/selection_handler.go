package handlers

import (
	"github.com/fenilmodi00/ipo-allotment-tracker/services"
	"github.com/gofiber/fiber/v2"
)

type SelectionHandler struct {
	State *services.DashboardState
}

func NewSelectionHandler(state *services.DashboardState) *SelectionHandler {
	return &SelectionHandler{State: state}
}

type selectRequest struct {
	ID string `json:"id"`
}

// GetSelection returns the selected IPO, which may be stale if it left the feed
func (h *SelectionHandler) GetSelection(c *fiber.Ctx) error {
	selected := h.State.Selected()
	if selected == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"ipo":           selected,
			"allotment_url": services.ResolveAllotmentURL(selected),
		},
	})
}

func (h *SelectionHandler) PutSelection(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	selected, err := h.State.Select(req.ID)
	if err != nil {
		return notFoundOrError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"ipo":           selected,
			"allotment_url": services.ResolveAllotmentURL(selected),
		},
	})
}

func (h *SelectionHandler) DeleteSelection(c *fiber.Ctx) error {
	h.State.ClearSelection()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Selection cleared",
	})
}
