package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"

	"staffing-agency-backend/config"
	"staffing-agency-backend/internal/datespan"
	"staffing-agency-backend/internal/model"
	"staffing-agency-backend/internal/store"
)

// Service periodically removes calendar entries older than the retention
// horizon, so year-old schedules do not accumulate forever. It only ever
// touches dates strictly before the horizon; current and future entries,
// occupied ones included, are never swept.
type Service struct {
	cfg   *config.Config
	store store.Store
	now   func() time.Time
}

// NewService creates a new retention sweeper.
func NewService(cfg *config.Config, s store.Store) *Service {
	return &Service{cfg: cfg, store: s, now: time.Now}
}

// Run starts the sweep loop. It blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Retention.Enabled {
		log.Println("Retention sweeper is disabled. Not starting.")
		return
	}
	log.Printf("Starting retention sweeper (keep %d days, every %s)...",
		s.cfg.Retention.KeepDays, s.cfg.Retention.Interval)

	if _, err := s.SweepOnce(ctx); err != nil {
		log.Printf("Retention sweep failed: %v", err)
	}

	timer := time.NewTimer(s.cfg.Retention.Interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if removed, err := s.SweepOnce(ctx); err != nil {
				log.Printf("Retention sweep failed: %v", err)
			} else if removed > 0 {
				log.Printf("Retention sweep removed %d stale calendar entries", removed)
			}
			timer.Reset(s.cfg.Retention.Interval)
		case <-ctx.Done():
			log.Println("Retention sweeper shutting down")
			return
		}
	}
}

// SweepOnce deletes every calendar entry dated before the retention horizon
// and returns the number of rows removed.
func (s *Service) SweepOnce(ctx context.Context) (int64, error) {
	horizon := datespan.Normalize(s.now()).AddDate(0, 0, -s.cfg.Retention.KeepDays)

	res := s.store.DB().WithContext(ctx).
		Where("date < ?", horizon).
		Delete(&model.CalendarEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to sweep entries before %s: %w",
			horizon.Format(datespan.DayFormat), res.Error)
	}
	return res.RowsAffected, nil
}
