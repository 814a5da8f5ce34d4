package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/activity"
)

// HousekeepingService periodically sweeps the idle tracker and refreshes the
// overview gauges.
type HousekeepingService struct {
	Admin    *AdminService
	Tracker  activity.Tracker
	Metrics  *Metrics
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults the interval to one minute.
func NewHousekeepingService(admin *AdminService, tracker activity.Tracker, metrics *Metrics, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &HousekeepingService{
		Admin:    admin,
		Tracker:  tracker,
		Metrics:  metrics,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress pass has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single pass. Steps are independent.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	if s.Tracker != nil {
		n, err := s.Tracker.Sweep(ctx, nowOr(s.Now))
		if err != nil {
			s.Logger.Error("failed to sweep idle tracker", "error", err)
		} else {
			s.Metrics.swept(n)
			s.Logger.Debug("swept idle tracker", "removed", n)
		}
	}

	if s.Admin != nil {
		// Overview updates the gauges as a side effect.
		if _, err := s.Admin.Overview(ctx); err != nil {
			s.Logger.Error("failed to refresh overview gauges", "error", err)
		}
	}
}
