package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Office staff subscribe to the workers whose schedules they coordinate.
type PushSubscription struct {
	Endpoint string `gorm:"primaryKey"`
	P256DH   string `gorm:"column:p256dh;not null"`
	Auth     string `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Workers []*Worker `gorm:"many2many:subscription_worker_mapping;"`
}