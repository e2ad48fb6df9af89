package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrSchedulerNotRunning is returned when a refresh is requested before Start or after Stop
var ErrSchedulerNotRunning = errors.New("refresh scheduler is not running")

// RefreshScheduler owns the periodic refresh handle. Every cycle starts all
// registered streams concurrently; a stream still busy from the previous
// cycle is skipped for that tick.
type RefreshScheduler struct {
	interval time.Duration
	cron     *cron.Cron
	jobs     []Job
	busy     map[string]*atomic.Bool

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewRefreshScheduler(interval time.Duration, jobs ...Job) *RefreshScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	busy := make(map[string]*atomic.Bool, len(jobs))
	for _, job := range jobs {
		busy[job.Name()] = &atomic.Bool{}
	}

	return &RefreshScheduler{
		interval: interval,
		cron:     cron.New(),
		jobs:     jobs,
		busy:     busy,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start schedules the periodic cycle and fires one immediately.
func (s *RefreshScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresh scheduler is already running")
	}
	if s.ctx.Err() != nil {
		return ErrSchedulerNotRunning
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
		return fmt.Errorf("failed to schedule refresh cycle '%s': %w", spec, err)
	}

	s.cron.Start()
	s.isRunning = true

	logrus.WithFields(logrus.Fields{
		"interval": s.interval,
		"streams":  s.streamNames(),
	}).Info("Refresh scheduler started")

	go s.RunOnce(s.ctx)
	return nil
}

// TriggerRefresh starts an out-of-band cycle without waiting for it.
func (s *RefreshScheduler) TriggerRefresh() error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()

	if !running {
		return ErrSchedulerNotRunning
	}

	go s.RunOnce(s.ctx)
	return nil
}

// RunOnce runs one cycle and returns when every started stream has finished.
// Streams do not wait on each other.
func (s *RefreshScheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		busy := s.busy[job.Name()]
		if !busy.CompareAndSwap(false, true) {
			logrus.WithField("stream", job.Name()).Warn("Previous refresh still running, skipping")
			continue
		}

		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			defer busy.Store(false)

			if err := j.Run(ctx); err != nil && ctx.Err() == nil {
				logrus.WithError(err).WithField("stream", j.Name()).Debug("Refresh stream finished with error")
			}
		}(job)
	}
	wg.Wait()
}

// Stop cancels the periodic handle. In-flight fetches see a cancelled
// context and their results are dropped.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if !s.isRunning {
		return
	}

	s.cron.Stop()
	s.isRunning = false
	for _, job := range s.jobs {
		job.Metrics().LogSummary()
	}
	logrus.Info("Refresh scheduler stopped")
}

func (s *RefreshScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isRunning
}

// Jobs lists the registered streams
func (s *RefreshScheduler) Jobs() []Job {
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	return jobs
}

func (s *RefreshScheduler) streamNames() []string {
	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name())
	}
	return names
}
