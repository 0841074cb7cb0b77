package store

import (
	"errors"
	"time"

	"staffing-agency-backend/internal/model"
)

// Assignment carries the status and metadata applied to every day touched
// by a range or batch update.
type Assignment struct {
	Status     model.AvailabilityStatus
	ContractID string
	Remarks    string
}

// CalendarQuery narrows a calendar read. Nil bounds and an empty status
// mean "no filter"; filters combine with AND semantics.
type CalendarQuery struct {
	From   *time.Time
	To     *time.Time
	Status model.AvailabilityStatus
}

var (
	// ErrWorkerNotFound is returned when the referenced worker does not exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrInvalidStatus is returned for a status outside the recognized set.
	ErrInvalidStatus = errors.New("invalid availability status")

	// ErrNoDates is returned when a batch update supplies an empty date list.
	ErrNoDates = errors.New("no dates supplied")

	// ErrConflict is returned by ReserveSpan when a target date is already occupied.
	ErrConflict = errors.New("dates already occupied")

	// ErrInvariantViolation indicates duplicate dates were found after a write.
	// It signals a bug in the assigner logic, not a caller error.
	ErrInvariantViolation = errors.New("duplicate calendar dates detected")
)
