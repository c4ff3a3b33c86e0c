package report

import (
	"context"
	"sync"
	"time"

	"foodhub-be/internal/logger"
	"foodhub-be/internal/utils"

	"go.uber.org/zap"
)

// Scheduler mails due report digests. One goroutine, ticker-driven.
type Scheduler struct {
	repo     Repository
	mailer   Mailer
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewScheduler(repo Repository, mailer Mailer) *Scheduler {
	return &Scheduler{
		repo:     repo,
		mailer:   mailer,
		interval: time.Minute,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	defer close(s.done)

	log := logger.L().With(zap.String("component", "report-scheduler"))
	log.Info("report scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("report scheduler stopped")
			return
		case <-s.stop:
			log.Info("report scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop is safe to call from any goroutine, any number of times, and
// blocks until Start has returned.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// runOnce claims every due schedule, mails its digest and advances it.
// A failed send is logged and the schedule still advances.
func (s *Scheduler) runOnce(ctx context.Context) {
	now := s.now().UTC()
	log := logger.L().With(zap.String("component", "report-scheduler"))

	due, err := s.repo.DueSchedules(ctx, now)
	if err != nil {
		log.Error("failed to load due schedules", zap.Error(err))
		return
	}

	for _, schedule := range due {
		digest, err := s.buildDigest(ctx, schedule, now)
		if err != nil {
			log.Error("failed to build digest",
				zap.String("schedule", schedule.ID.String()), zap.Error(err))
			continue
		}

		if err := s.mailer.SendDigest(ctx, schedule.Email, digest); err != nil {
			log.Error("failed to mail digest",
				zap.String("schedule", schedule.ID.String()),
				zap.String("email", schedule.Email),
				zap.Error(err))
		}

		if err := s.repo.AdvanceSchedule(ctx, schedule.ID, nextRun(now, schedule.Frequency)); err != nil {
			log.Error("failed to advance schedule",
				zap.String("schedule", schedule.ID.String()), zap.Error(err))
		}
	}
}

// buildDigest covers the frequency window ending now.
func (s *Scheduler) buildDigest(ctx context.Context, schedule *Schedule, now time.Time) (*Digest, error) {
	var start time.Time
	switch schedule.Frequency {
	case FrequencyWeekly:
		start = now.AddDate(0, 0, -7)
	case FrequencyMonthly:
		start = now.AddDate(0, -1, 0)
	default:
		start = now.AddDate(0, 0, -1)
	}

	totalSales, err := s.repo.TotalSales(ctx, start, now)
	if err != nil {
		return nil, err
	}

	orderCount, err := s.repo.OrderCount(ctx, start, now)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.repo.TopProducts(ctx, start, now, topProductLimit)
	if err != nil {
		return nil, err
	}

	return &Digest{
		Reference:   utils.GenerateReportRef(),
		PeriodStart: start,
		PeriodEnd:   now,
		TotalSales:  totalSales,
		OrderCount:  orderCount,
		TopProducts: topProducts,
	}, nil
}
