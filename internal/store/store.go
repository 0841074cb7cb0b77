package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"staffing-agency-backend/internal/datespan"
	"staffing-agency-backend/internal/model"
)

// Store defines the interface for all calendar operations.
type Store interface {
	DB() *gorm.DB

	// AssignSpan overwrites every day in the span with one status, replacing
	// whatever was there before. Returns the number of days written.
	AssignSpan(ctx context.Context, workerID int64, span datespan.Span, a Assignment) (int, error)

	// AssignDates does the same for an explicit, possibly non-contiguous
	// list of days.
	AssignDates(ctx context.Context, workerID int64, dates []time.Time, a Assignment) (int, error)

	// ReserveSpan atomically checks that no day in the span is occupied and
	// then marks the whole span occupied for the given contract. Returns
	// ErrConflict without writing anything if the check fails.
	ReserveSpan(ctx context.Context, workerID int64, span datespan.Span, contractID, remarks string) (int, error)

	// QueryCalendar returns the worker's entries matching the query,
	// ascending by date.
	QueryCalendar(ctx context.Context, workerID int64, q CalendarQuery) ([]model.CalendarEntry, error)

	// SpanFree reports whether no day in the span is occupied.
	SpanFree(ctx context.Context, workerID int64, span datespan.Span) (bool, error)

	// DeleteSpan removes every entry inside the span and returns how many
	// were removed.
	DeleteSpan(ctx context.Context, workerID int64, span datespan.Span) (int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db    *gorm.DB
	locks *workerLocks
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, locks: newWorkerLocks()}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// AssignSpan rebuilds the span destructively: every existing entry inside it
// is deleted, occupied days included, and one fresh entry per day is written.
// Callers that must not clobber live bookings use ReserveSpan instead.
func (s *gormStore) AssignSpan(ctx context.Context, workerID int64, span datespan.Span, a Assignment) (int, error) {
	if !a.Status.Valid() {
		return 0, ErrInvalidStatus
	}

	lock := s.locks.get(workerID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.workerExists(ctx, workerID); err != nil {
		return 0, err
	}

	days := span.Days()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worker_id = ? AND date BETWEEN ? AND ?", workerID, span.Start, span.End).
			Delete(&model.CalendarEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear span for worker %d: %w", workerID, err)
		}
		if err := insertDays(tx, workerID, days, a); err != nil {
			return err
		}
		return checkNoDuplicateDates(tx, workerID)
	})
	if err != nil {
		return 0, err
	}
	return len(days), nil
}

// AssignDates is the batch variant of AssignSpan: same delete-then-insert
// primitive, membership-driven instead of range-driven.
func (s *gormStore) AssignDates(ctx context.Context, workerID int64, dates []time.Time, a Assignment) (int, error) {
	if !a.Status.Valid() {
		return 0, ErrInvalidStatus
	}
	days := datespan.NormalizeAll(dates)
	if len(days) == 0 {
		return 0, ErrNoDates
	}

	lock := s.locks.get(workerID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.workerExists(ctx, workerID); err != nil {
		return 0, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worker_id = ? AND date IN ?", workerID, days).
			Delete(&model.CalendarEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear dates for worker %d: %w", workerID, err)
		}
		if err := insertDays(tx, workerID, days, a); err != nil {
			return err
		}
		return checkNoDuplicateDates(tx, workerID)
	})
	if err != nil {
		return 0, err
	}
	return len(days), nil
}

// ReserveSpan folds the conflict check and the occupied write into one
// transaction under the worker lock, so two concurrent booking attempts
// cannot both pass the check and double-book the worker.
func (s *gormStore) ReserveSpan(ctx context.Context, workerID int64, span datespan.Span, contractID, remarks string) (int, error) {
	lock := s.locks.get(workerID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.workerExists(ctx, workerID); err != nil {
		return 0, err
	}

	days := span.Days()
	a := Assignment{Status: model.StatusOccupied, ContractID: contractID, Remarks: remarks}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occupied int64
		if err := tx.Model(&model.CalendarEntry{}).
			Where("worker_id = ? AND status = ? AND date BETWEEN ? AND ?",
				workerID, model.StatusOccupied, span.Start, span.End).
			Count(&occupied).Error; err != nil {
			return fmt.Errorf("failed to check occupancy for worker %d: %w", workerID, err)
		}
		if occupied > 0 {
			return ErrConflict
		}

		if err := tx.Where("worker_id = ? AND date BETWEEN ? AND ?", workerID, span.Start, span.End).
			Delete(&model.CalendarEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear span for worker %d: %w", workerID, err)
		}
		if err := insertDays(tx, workerID, days, a); err != nil {
			return err
		}
		return checkNoDuplicateDates(tx, workerID)
	})
	if err != nil {
		return 0, err
	}
	return len(days), nil
}

// QueryCalendar is a pure read; an empty result is a valid empty calendar,
// not an error.
func (s *gormStore) QueryCalendar(ctx context.Context, workerID int64, q CalendarQuery) ([]model.CalendarEntry, error) {
	if err := s.workerExists(ctx, workerID); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Where("worker_id = ?", workerID)
	if q.From != nil {
		tx = tx.Where("date >= ?", datespan.Normalize(*q.From))
	}
	if q.To != nil {
		tx = tx.Where("date <= ?", datespan.Normalize(*q.To))
	}
	if q.Status != "" {
		if !q.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		tx = tx.Where("status = ?", q.Status)
	}

	var entries []model.CalendarEntry
	if err := tx.Order("date ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query calendar for worker %d: %w", workerID, err)
	}
	return entries, nil
}

// SpanFree reports whether the span holds no occupied day. Statuses other
// than occupied do not block a booking. This is a snapshot read only;
// committing a booking goes through ReserveSpan, which re-checks.
func (s *gormStore) SpanFree(ctx context.Context, workerID int64, span datespan.Span) (bool, error) {
	if err := s.workerExists(ctx, workerID); err != nil {
		return false, err
	}

	var occupied int64
	if err := s.db.WithContext(ctx).Model(&model.CalendarEntry{}).
		Where("worker_id = ? AND status = ? AND date BETWEEN ? AND ?",
			workerID, model.StatusOccupied, span.Start, span.End).
		Count(&occupied).Error; err != nil {
		return false, fmt.Errorf("failed to check occupancy for worker %d: %w", workerID, err)
	}
	return occupied == 0, nil
}

// DeleteSpan removes all entries in the span with no replacement; the days
// revert to "no entry", which readers treat the same as unset.
func (s *gormStore) DeleteSpan(ctx context.Context, workerID int64, span datespan.Span) (int64, error) {
	lock := s.locks.get(workerID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.workerExists(ctx, workerID); err != nil {
		return 0, err
	}

	res := s.db.WithContext(ctx).
		Where("worker_id = ? AND date BETWEEN ? AND ?", workerID, span.Start, span.End).
		Delete(&model.CalendarEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete span for worker %d: %w", workerID, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *gormStore) workerExists(ctx context.Context, workerID int64) error {
	var worker model.Worker
	if err := s.db.WithContext(ctx).Select("id").First(&worker, workerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrWorkerNotFound
		}
		return fmt.Errorf("failed to look up worker %d: %w", workerID, err)
	}
	return nil
}

// insertDays writes one fresh entry per day. Dates are immutable once
// written; updates always arrive here as delete-then-insert, never as an
// in-place edit. A contract reference is only meaningful on occupied days
// and is dropped for every other status.
func insertDays(tx *gorm.DB, workerID int64, days []time.Time, a Assignment) error {
	contractID := a.ContractID
	if a.Status != model.StatusOccupied {
		contractID = ""
	}

	entries := make([]model.CalendarEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, model.CalendarEntry{
			WorkerID:   workerID,
			Date:       day,
			Status:     a.Status,
			ContractID: contractID,
			Remarks:    a.Remarks,
		})
	}
	if err := tx.Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to insert %d calendar entries for worker %d: %w", len(entries), workerID, err)
	}
	return nil
}

// checkNoDuplicateDates is a defensive guard run after every rebuild: if the
// worker's calendar ever holds two rows for one date, the assigner has a bug
// and the transaction must roll back.
func checkNoDuplicateDates(tx *gorm.DB, workerID int64) error {
	var total, distinct int64
	if err := tx.Model(&model.CalendarEntry{}).
		Where("worker_id = ?", workerID).Count(&total).Error; err != nil {
		return fmt.Errorf("failed to count calendar entries for worker %d: %w", workerID, err)
	}
	if err := tx.Model(&model.CalendarEntry{}).
		Where("worker_id = ?", workerID).Distinct("date").Count(&distinct).Error; err != nil {
		return fmt.Errorf("failed to count distinct dates for worker %d: %w", workerID, err)
	}
	if total != distinct {
		return ErrInvariantViolation
	}
	return nil
}
