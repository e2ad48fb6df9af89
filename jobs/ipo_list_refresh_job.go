package jobs

import (
	"context"
	"time"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/fenilmodi00/ipo-allotment-tracker/services"
	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
	"github.com/sirupsen/logrus"
)

const (
	ipoListFailureMessage = "Failed to load IPO data. Check connection."
	ipoListEmptyMessage   = "No active IPOs found in the linked sheet."
)

// IPOSource yields the authoritative IPO list
type IPOSource interface {
	FetchSheetData(ctx context.Context) ([]*models.IPORecord, error)
}

// IPOListRefreshJob is Stream A: fetch the sheet, replace the working
// collection, reconcile the selection. A failed fetch keeps the previous
// collection.
type IPOListRefreshJob struct {
	source   IPOSource
	state    *services.DashboardState
	notifier *services.NotificationService
	metrics  *shared.ServiceMetrics
}

func NewIPOListRefreshJob(source IPOSource, state *services.DashboardState, notifier *services.NotificationService) *IPOListRefreshJob {
	return &IPOListRefreshJob{
		source:   source,
		state:    state,
		notifier: notifier,
		metrics:  shared.NewServiceMetrics(StreamIPOList),
	}
}

func (j *IPOListRefreshJob) Name() string { return StreamIPOList }

func (j *IPOListRefreshJob) Metrics() *shared.ServiceMetrics { return j.metrics }

// Run performs one cycle. Results arriving after ctx is cancelled are discarded.
func (j *IPOListRefreshJob) Run(ctx context.Context) error {
	start := time.Now()
	records, err := j.source.FetchSheetData(ctx)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		logrus.WithField("stream", StreamIPOList).Debug("Discarding IPO list result after shutdown")
		return ctx.Err()
	}

	j.metrics.RecordRequest(err == nil, elapsed)

	if err != nil {
		if serviceErr, ok := shared.AsServiceError(err); ok {
			serviceErr.LogError()
		} else {
			logrus.WithError(err).WithFields(logrus.Fields{
				"stream":    StreamIPOList,
				"retryable": shared.IsRetryableError(err),
			}).Error("IPO list refresh failed")
		}
		j.metrics.IncrementCustomCounter("failed_cycles")
		j.notifier.Publish(models.NotificationError, StreamIPOList, shared.UserMessage(err, ipoListFailureMessage))
		return err
	}

	if err := j.state.CommitIPOs(ctx, records); err != nil {
		logrus.WithField("stream", StreamIPOList).Debug("Discarding IPO list result after shutdown")
		return err
	}
	j.metrics.SetCustomMetric("record_count", len(records))

	if len(records) == 0 {
		j.notifier.Publish(models.NotificationInfo, StreamIPOList, ipoListEmptyMessage)
	}

	logrus.WithFields(logrus.Fields{
		"stream":          StreamIPOList,
		"records":         len(records),
		"processing_time": elapsed,
	}).Info("IPO list refreshed")

	return nil
}
