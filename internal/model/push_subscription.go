package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// ChairWatch links a subscription to a chair the subscriber wants to be
// notified about when it becomes free. An explicit join row rather than an
// association so file-persistence deployments need no chair rows to exist.
type ChairWatch struct {
	Endpoint string `gorm:"primaryKey;size:512"`
	ChairID  string `gorm:"primaryKey;size:128;index"`
}
