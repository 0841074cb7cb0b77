package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"staffing-agency-backend/internal/datespan"
	"staffing-agency-backend/internal/model"
	"staffing-agency-backend/internal/store"
)

func workerIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("worker_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return 0, false
	}
	return id, true
}

type assignRangeRequest struct {
	StartDate  string                   `json:"startDate" binding:"required"`
	EndDate    string                   `json:"endDate" binding:"required"`
	Status     model.AvailabilityStatus `json:"status" binding:"required"`
	ContractID string                   `json:"contractId"`
	Remarks    string                   `json:"remarks"`
}

// AssignRange handles POST /api/workers/{worker_id}/availability.
// Every day in [startDate, endDate] is overwritten with the given status.
func (h *Handler) AssignRange(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	var req assignRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span, err := datespan.Parse(req.StartDate, req.EndDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.store.AssignSpan(c.Request.Context(), workerID, span, store.Assignment{
		Status:     req.Status,
		ContractID: req.ContractID,
		Remarks:    req.Remarks,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.calendarChanged(workerID)
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

type assignBatchRequest struct {
	Dates      []string                 `json:"dates" binding:"required"`
	Status     model.AvailabilityStatus `json:"status" binding:"required"`
	ContractID string                   `json:"contractId"`
	Remarks    string                   `json:"remarks"`
}

// AssignBatch handles POST /api/workers/{worker_id}/availability/batch.
// Same overwrite semantics as AssignRange, for an explicit list of days.
func (h *Handler) AssignBatch(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	var req assignBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, s := range req.Dates {
		d, err := datespan.ParseDay(s)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dates = append(dates, d)
	}

	updated, err := h.store.AssignDates(c.Request.Context(), workerID, dates, store.Assignment{
		Status:     req.Status,
		ContractID: req.ContractID,
		Remarks:    req.Remarks,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.calendarChanged(workerID)
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

type reserveRequest struct {
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	ContractID string `json:"contractId" binding:"required"`
	Remarks    string `json:"remarks"`
}

// Reserve handles POST /api/workers/{worker_id}/availability/reserve.
// The contract workflow uses this instead of a separate check-then-assign
// pair; the conflict check and the occupied write commit together.
func (h *Handler) Reserve(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span, err := datespan.Parse(req.StartDate, req.EndDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reserved, err := h.store.ReserveSpan(c.Request.Context(), workerID, span, req.ContractID, req.Remarks)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.calendarChanged(workerID)
	c.JSON(http.StatusCreated, gin.H{"reserved": reserved})
}

// availabilityResponse is the JSON shape of a calendar read.
type availabilityResponse struct {
	WorkerID int64                 `json:"workerId"`
	Calendar []model.CalendarEntry `json:"availabilityCalendar"`
}

// GetAvailability handles GET /api/workers/{worker_id}/availability with
// optional startDate, endDate and status query filters.
func (h *Handler) GetAvailability(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	var q store.CalendarQuery
	if s := c.Query("startDate"); s != "" {
		d, err := datespan.ParseDay(s)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q.From = &d
	}
	if s := c.Query("endDate"); s != "" {
		d, err := datespan.ParseDay(s)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q.To = &d
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		h.abortWithError(c, datespan.ErrInvalidRange)
		return
	}
	q.Status = model.AvailabilityStatus(c.Query("status"))

	entries, err := h.store.QueryCalendar(c.Request.Context(), workerID, q)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	if entries == nil {
		entries = []model.CalendarEntry{}
	}
	c.JSON(http.StatusOK, availabilityResponse{WorkerID: workerID, Calendar: entries})
}

// CheckAvailability handles GET /api/workers/{worker_id}/availability/check.
// It reports whether the range holds no occupied day. This is a snapshot
// read; committing the booking must go through Reserve.
func (h *Handler) CheckAvailability(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	span, err := datespan.Parse(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	free, err := h.store.SpanFree(c.Request.Context(), workerID, span)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": free})
}

// DeleteAvailability handles DELETE /api/workers/{worker_id}/availability.
// The dates revert to "no entry", which readers treat the same as unset.
func (h *Handler) DeleteAvailability(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	span, err := datespan.Parse(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	removed, err := h.store.DeleteSpan(c.Request.Context(), workerID, span)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.calendarChanged(workerID)
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
