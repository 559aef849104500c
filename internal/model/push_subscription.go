package model

import "time"

// PushSubscription holds a browser push subscription for a socio's
// device. Receipts are delivered here when possible; direct download
// remains the fallback.
type PushSubscription struct {
	Endpoint    string    `gorm:"primaryKey"`
	P256DH      string    `gorm:"column:p256dh;not null"`
	Auth        string    `gorm:"not null"`
	SocioCodigo string    `gorm:"index;size:32;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}
