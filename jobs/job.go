package jobs

import (
	"context"

	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
)

// Job is one refresh stream driven by the RefreshScheduler
type Job interface {
	Name() string
	Run(ctx context.Context) error
	Metrics() *shared.ServiceMetrics
}

// Stream names double as notification stream labels
const (
	StreamIPOList    = "ipo_list"
	StreamMarketNews = "market_news"
)
