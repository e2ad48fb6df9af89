package handlers

import (
	"errors"

	"github.com/fenilmodi00/ipo-allotment-tracker/jobs"
	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Refresher is the scheduler surface the admin endpoints drive
type Refresher interface {
	TriggerRefresh() error
	Jobs() []jobs.Job
}

type AdminHandler struct {
	Scheduler   Refresher
	SheetHTTP   *shared.HTTPMetrics
	MarketIntel *shared.ServiceMetrics // nil when the AI service is disabled
	CacheStats  func() map[string]interface{}
}

func NewAdminHandler(scheduler Refresher, sheetHTTP *shared.HTTPMetrics, marketIntel *shared.ServiceMetrics, cacheStats func() map[string]interface{}) *AdminHandler {
	return &AdminHandler{
		Scheduler:   scheduler,
		SheetHTTP:   sheetHTTP,
		MarketIntel: marketIntel,
		CacheStats:  cacheStats,
	}
}

// TriggerRefresh starts an out-of-band refresh cycle
func (h *AdminHandler) TriggerRefresh(c *fiber.Ctx) error {
	logrus.Info("Manual refresh triggered via admin endpoint")

	if err := h.Scheduler.TriggerRefresh(); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, jobs.ErrSchedulerNotRunning) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Refresh cycle started",
	})
}

// GetMetrics reports per-stream refresh counts plus sheet and AI transport metrics
func (h *AdminHandler) GetMetrics(c *fiber.Ctx) error {
	streams := make(map[string]*shared.ServiceMetrics)
	successRates := make(map[string]float64)
	for _, job := range h.Scheduler.Jobs() {
		snapshot := job.Metrics().GetSnapshot()
		streams[job.Name()] = snapshot
		successRates[job.Name()] = snapshot.GetSuccessRate()
	}

	data := fiber.Map{
		"streams":       streams,
		"success_rates": successRates,
	}
	if h.SheetHTTP != nil {
		data["sheet_http"] = h.SheetHTTP.GetSnapshot()
	}
	if h.MarketIntel != nil {
		data["market_intel"] = h.MarketIntel.GetSnapshot()
	}
	if h.CacheStats != nil {
		data["cache"] = h.CacheStats()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
