package handlers

import (
	"errors"

	"github.com/fenilmodi00/ipo-allotment-tracker/services"
	"github.com/gofiber/fiber/v2"
)

type IPOHandler struct {
	State *services.DashboardState
}

func NewIPOHandler(state *services.DashboardState) *IPOHandler {
	return &IPOHandler{State: state}
}

// GetIPOs returns the working collection sorted by status priority, optionally filtered by ?q=
func (h *IPOHandler) GetIPOs(c *fiber.Ctx) error {
	ipos := h.State.Search(c.Query("q"))
	lastRefreshed, _ := h.State.LastRefreshed()

	return c.JSON(fiber.Map{
		"success":        true,
		"data":           ipos,
		"count":          len(ipos),
		"last_refreshed": lastRefreshed,
	})
}

func (h *IPOHandler) GetIPOByID(c *fiber.Ctx) error {
	ipo, err := h.State.IPOByID(c.Params("id"))
	if err != nil {
		return notFoundOrError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    ipo,
	})
}

// GetAllotmentLink returns the resolved registrar URL without navigating
func (h *IPOHandler) GetAllotmentLink(c *fiber.Ctx) error {
	ipo, err := h.State.IPOByID(c.Params("id"))
	if err != nil {
		return notFoundOrError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"ipo_id":    ipo.ID,
			"name":      ipo.Name,
			"registrar": ipo.Registrar,
			"url":       services.ResolveAllotmentURL(ipo),
		},
	})
}

// RedirectToAllotment sends the browser to the registrar portal
func (h *IPOHandler) RedirectToAllotment(c *fiber.Ctx) error {
	ipo, err := h.State.IPOByID(c.Params("id"))
	if err != nil {
		return notFoundOrError(c, err)
	}
	return c.Redirect(services.ResolveAllotmentURL(ipo), fiber.StatusFound)
}

func (h *IPOHandler) GetRegistrars(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    services.KnownRegistrarPortals(),
	})
}

func notFoundOrError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrIPONotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "IPO not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
