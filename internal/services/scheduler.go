package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/metrics"
	"careerpath/career-advisor/internal/models"
)

// SummarySource is the part of the tracker the analytics snapshot reads.
type SummarySource interface {
	Summary() (*models.AnalyticsSummary, error)
}

// AnalyticsScheduler periodically copies tracker totals into Prometheus gauges.
type AnalyticsScheduler struct {
	cron    *cron.Cron
	tracker SummarySource
	spec    string
}

func NewAnalyticsScheduler(tracker SummarySource, spec string) *AnalyticsScheduler {
	if spec == "" {
		spec = "@every 1h"
	}
	return &AnalyticsScheduler{
		cron:    cron.New(),
		tracker: tracker,
		spec:    spec,
	}
}

// Start registers the snapshot job, runs it once and starts the cron loop.
func (s *AnalyticsScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.Snapshot(); err != nil {
			logger.Error().Err(err).Msg("❌ Scheduled analytics snapshot failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid analytics schedule %q: %w", s.spec, err)
	}

	go func() {
		if _, err := s.Snapshot(); err != nil {
			logger.Error().Err(err).Msg("❌ Initial analytics snapshot failed")
		}
	}()

	s.cron.Start()
	logger.Info().Str("spec", s.spec).Msg("🔄 Analytics snapshot scheduled")
	return nil
}

// Stop waits for a running snapshot to finish or ctx to expire.
func (s *AnalyticsScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Snapshot reads the tracker summary and updates the gauges.
func (s *AnalyticsScheduler) Snapshot() (*models.AnalyticsSummary, error) {
	summary, err := s.tracker.Summary()
	if err != nil {
		metrics.BackgroundJobs.WithLabelValues("analytics_snapshot", "error").Inc()
		return nil, fmt.Errorf("failed to read analytics summary: %w", err)
	}

	metrics.TrackedSearches.Set(float64(summary.TotalSearches))
	metrics.TrackedUsers.Set(float64(summary.UniqueUsers))
	metrics.BackgroundJobs.WithLabelValues("analytics_snapshot", "ok").Inc()

	logger.Info().
		Int64("searches", summary.TotalSearches).
		Int64("users", summary.UniqueUsers).
		Msg("📊 Analytics snapshot updated")
	return summary, nil
}
