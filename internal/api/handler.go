package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"staffing-agency-backend/internal/datespan"
	"staffing-agency-backend/internal/mw"
	"staffing-agency-backend/internal/notification"
	"staffing-agency-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	webpush   *webpush.Options
	notifier  *notification.WorkerPool
	respCache *cache.Cache
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, notifier *notification.WorkerPool, respCache *cache.Cache) *Handler {
	return &Handler{
		store:     s,
		webpush:   webpushOptions,
		notifier:  notifier,
		respCache: respCache,
	}
}

// calendarChanged busts cached calendar views for the worker and queues a
// push notice for subscribed staff.
func (h *Handler) calendarChanged(workerID int64) {
	if h.respCache != nil {
		mw.FlushPrefix(h.respCache, fmt.Sprintf("/api/workers/%d/availability", workerID))
	}
	if h.notifier != nil {
		h.notifier.Dispatch(workerID)
	}
}

// abortWithError maps engine errors onto HTTP statuses.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrWorkerNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "worker not found"})
	case errors.Is(err, store.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "requested dates are already occupied"})
	case errors.Is(err, datespan.ErrInvalidRange),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrNoDates):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvariantViolation):
		log.Printf("Calendar invariant violated: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal calendar inconsistency"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
