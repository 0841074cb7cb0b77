package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"staffing-agency-backend/internal/model"
)

type createWorkerRequest struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
}

// CreateWorker registers a worker. The calendar starts empty; no entry rows
// are created until the first assignment.
func (h *Handler) CreateWorker(c *gin.Context) {
	var req createWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	worker := model.Worker{Name: req.Name, Role: req.Role, Phone: req.Phone}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&worker).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create worker"})
		return
	}

	c.JSON(http.StatusCreated, worker)
}

// GetWorkers handles the GET /api/workers request.
func (h *Handler) GetWorkers(c *gin.Context) {
	var workers []model.Worker
	if err := h.store.DB().WithContext(c.Request.Context()).Order("id ASC").Find(&workers).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workers"})
		return
	}
	c.JSON(http.StatusOK, workers)
}

// GetWorker handles the GET /api/workers/{worker_id} request.
func (h *Handler) GetWorker(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	var worker model.Worker
	if err := h.store.DB().WithContext(c.Request.Context()).First(&worker, workerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "worker not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, worker)
}

// DeleteWorker removes a worker and, with it, the whole calendar and any
// subscription links. Calendar entries never outlive their worker.
func (h *Handler) DeleteWorker(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	err := h.store.DB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var worker model.Worker
		if err := tx.First(&worker, workerID).Error; err != nil {
			return err
		}
		if err := tx.Where("worker_id = ?", workerID).Delete(&model.CalendarEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM subscription_worker_mapping WHERE worker_id = ?", workerID).Error; err != nil {
			return err
		}
		return tx.Delete(&worker).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "worker not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.calendarChanged(workerID)
	c.Status(http.StatusNoContent)
}
