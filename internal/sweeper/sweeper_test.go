package sweeper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"staffing-agency-backend/config"
	"staffing-agency-backend/internal/datespan"
	"staffing-agency-backend/internal/model"
	"staffing-agency-backend/internal/store"
)

func TestSweepOnce(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(&model.Worker{}, &model.CalendarEntry{}))

	worker := model.Worker{Name: "王阿姨"}
	require.NoError(t, db.Create(&worker).Error)

	s := store.NewGormStore(db)

	// Fixed "today" so the horizon is deterministic.
	today := time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC)

	// Entries straddling the 30-day horizon (2024-08-02).
	stale, err := datespan.Parse("2024-07-25", "2024-08-01")
	require.NoError(t, err)
	fresh, err := datespan.Parse("2024-08-02", "2024-08-05")
	require.NoError(t, err)

	_, err = s.AssignSpan(context.Background(), worker.ID, stale,
		store.Assignment{Status: model.StatusOccupied, ContractID: "HT-2024-050"})
	require.NoError(t, err)
	_, err = s.AssignSpan(context.Background(), worker.ID, fresh,
		store.Assignment{Status: model.StatusAvailable})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Retention.KeepDays = 30
	svc := NewService(cfg, s)
	svc.now = func() time.Time { return today }

	removed, err := svc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), removed) // 07-25 .. 08-01

	entries, err := s.QueryCalendar(context.Background(), worker.ID, store.CalendarQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "2024-08-02", entries[0].Date.Format(datespan.DayFormat))

	// A second sweep finds nothing left to remove.
	removed, err = svc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
