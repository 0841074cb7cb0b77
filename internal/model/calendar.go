package model

import "time"

// AvailabilityStatus is the per-day booking state of a worker.
type AvailabilityStatus string

const (
	StatusUnset       AvailabilityStatus = "unset"
	StatusAvailable   AvailabilityStatus = "available"
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusOccupied    AvailabilityStatus = "occupied"
	StatusLeave       AvailabilityStatus = "leave"
)

// Valid reports whether s is one of the recognized statuses.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case StatusUnset, StatusAvailable, StatusUnavailable, StatusOccupied, StatusLeave:
		return true
	}
	return false
}

// CalendarEntry is one calendar day of one worker's availability.
// Date is always normalized to midnight UTC; (worker_id, date) is unique.
type CalendarEntry struct {
	ID         int64              `gorm:"autoIncrement;primaryKey" json:"-"`
	WorkerID   int64              `gorm:"not null;uniqueIndex:idx_worker_date" json:"-"`
	Date       time.Time          `gorm:"not null;uniqueIndex:idx_worker_date" json:"date"`
	Status     AvailabilityStatus `gorm:"size:16;not null" json:"status"`
	ContractID string             `gorm:"size:64" json:"contractId,omitempty"`
	Remarks    string             `gorm:"size:256" json:"remarks,omitempty"`
	CreatedAt  time.Time          `json:"-"`

	// Associations
	Worker Worker `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
