package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"staffing-agency-backend/config"
	"staffing-agency-backend/internal/api"
	"staffing-agency-backend/internal/model"
	"staffing-agency-backend/internal/notification"
	"staffing-agency-backend/internal/store"
)

// TestBookingLifecycle walks the whole calendar flow the way the office
// uses it: register a worker, paint availability, check and reserve a
// booking, collide with it, then cancel.
func TestBookingLifecycle(t *testing.T) {
	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to the in-memory database: %v", err)
	}
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	err = testDB.AutoMigrate(&model.Worker{}, &model.CalendarEntry{}, &model.PushSubscription{})
	assert.NoError(t, err)

	// 2. Build the full router. The notifier pool is not started, so queued
	// notices stay in the buffer and no pushes leave the test.
	appStore := store.NewGormStore(testDB)
	notifier := notification.NewWorkerPool(2, testDB, &webpush.Options{})

	serverCfg := &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}
	router := api.NewRouter(appStore, &webpush.Options{VAPIDPublicKey: "test-key"}, notifier, serverCfg)

	do := func(method, url, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, url, nil)
		} else {
			req = httptest.NewRequest(method, url, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 3. Register a worker.
	w := do("POST", "/api/workers", `{"name":"赵阿姨","role":"maternity-nurse","phone":"13800000000"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var worker model.Worker
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &worker))
	require.NotZero(t, worker.ID)

	base := fmt.Sprintf("/api/workers/%d/availability", worker.ID)

	t.Run("Paint availability for March", func(t *testing.T) {
		w := do("POST", base, `{"startDate":"2024-03-01","endDate":"2024-03-31","status":"available"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"updated":31}`, w.Body.String())
	})

	t.Run("Conflict check passes on a free range", func(t *testing.T) {
		w := do("GET", base+"/check?startDate=2024-03-10&endDate=2024-03-20", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"available":true}`, w.Body.String())
	})

	t.Run("Reserve the range for a contract", func(t *testing.T) {
		w := do("POST", base+"/reserve",
			`{"startDate":"2024-03-10","endDate":"2024-03-20","contractId":"HT-2024-033","remarks":"月子照护"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"reserved":11}`, w.Body.String())
	})

	t.Run("Conflict check now fails and a second reserve is refused", func(t *testing.T) {
		w := do("GET", base+"/check?startDate=2024-03-15&endDate=2024-03-25", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"available":false}`, w.Body.String())

		w = do("POST", base+"/reserve",
			`{"startDate":"2024-03-15","endDate":"2024-03-25","contractId":"HT-2024-034"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Month view shows the booking", func(t *testing.T) {
		w := do("GET", base+"?startDate=2024-03-01&endDate=2024-03-31&status=occupied", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			WorkerID int64                 `json:"workerId"`
			Calendar []model.CalendarEntry `json:"availabilityCalendar"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Calendar, 11)
		for _, e := range resp.Calendar {
			assert.Equal(t, model.StatusOccupied, e.Status)
			assert.Equal(t, "HT-2024-033", e.ContractID)
		}
	})

	t.Run("Cancelling the booking frees the range", func(t *testing.T) {
		w := do("DELETE", base+"?startDate=2024-03-10&endDate=2024-03-20", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"removed":11}`, w.Body.String())

		w = do("GET", base+"/check?startDate=2024-03-10&endDate=2024-03-20", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"available":true}`, w.Body.String())

		// The cancelled days are gone entirely, the rest of March remains.
		w = do("GET", base+"?startDate=2024-03-01&endDate=2024-03-31", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Calendar []model.CalendarEntry `json:"availabilityCalendar"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Calendar, 20)
	})

	t.Run("Deleting the worker cascades to the calendar", func(t *testing.T) {
		w := do("DELETE", fmt.Sprintf("/api/workers/%d", worker.ID), "")
		require.Equal(t, http.StatusNoContent, w.Code)

		w = do("GET", base, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		var count int64
		require.NoError(t, testDB.Model(&model.CalendarEntry{}).
			Where("worker_id = ?", worker.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
