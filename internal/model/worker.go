package model

import "time"

// Worker represents one staff member's profile record.
// Profile details live in the external profile service; this table only
// carries what the calendar engine needs to anchor ownership and lifecycle.
type Worker struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Role      string `gorm:"size:64" json:"role"`
	Phone     string `gorm:"size:32" json:"phone"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Calendar []CalendarEntry `gorm:"foreignKey:WorkerID" json:"-"`
}
