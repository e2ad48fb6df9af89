package jobs

import (
	"context"
	"time"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/fenilmodi00/ipo-allotment-tracker/services"
	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
	"github.com/sirupsen/logrus"
)

const marketNewsFailureMessage = "Could not update market news feed."

// NewsSource yields supplementary market headlines
type NewsSource interface {
	FetchMarketNews(ctx context.Context) ([]models.MarketFeedItem, error)
}

// MarketNewsRefreshJob is Stream B. Failures downgrade to a warning and leave
// the previous feed in place.
type MarketNewsRefreshJob struct {
	source   NewsSource
	state    *services.DashboardState
	notifier *services.NotificationService
	metrics  *shared.ServiceMetrics
}

func NewMarketNewsRefreshJob(source NewsSource, state *services.DashboardState, notifier *services.NotificationService) *MarketNewsRefreshJob {
	return &MarketNewsRefreshJob{
		source:   source,
		state:    state,
		notifier: notifier,
		metrics:  shared.NewServiceMetrics(StreamMarketNews),
	}
}

func (j *MarketNewsRefreshJob) Name() string { return StreamMarketNews }

func (j *MarketNewsRefreshJob) Metrics() *shared.ServiceMetrics { return j.metrics }

func (j *MarketNewsRefreshJob) Run(ctx context.Context) error {
	start := time.Now()
	items, err := j.source.FetchMarketNews(ctx)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		logrus.WithField("stream", StreamMarketNews).Debug("Discarding market news result after shutdown")
		return ctx.Err()
	}

	j.metrics.RecordRequest(err == nil, elapsed)

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"stream":    StreamMarketNews,
			"retryable": shared.IsRetryableError(err),
		}).Warn("Market news refresh failed")
		j.notifier.Publish(models.NotificationWarning, StreamMarketNews, marketNewsFailureMessage)
		return err
	}

	if err := j.state.CommitFeed(ctx, items); err != nil {
		logrus.WithField("stream", StreamMarketNews).Debug("Discarding market news result after shutdown")
		return err
	}
	j.metrics.SetCustomMetric("item_count", len(items))

	logrus.WithFields(logrus.Fields{
		"stream":          StreamMarketNews,
		"items":           len(items),
		"processing_time": elapsed,
	}).Info("Market news refreshed")

	return nil
}
