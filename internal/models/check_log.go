package models

import "time"

// CheckLog records check-in/check-out events per booking, keyed by which
// party acted and the direction. Independent of the booking status field
// except that a user check-out completes the booking.
type CheckLog struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"index" json:"booking_id"`

	Actor     string    `gorm:"size:10;not null" json:"actor"`
	Direction string    `gorm:"size:3;not null" json:"direction"`
	At        time.Time `json:"at"`

	CreatedAt time.Time `json:"created_at"`
}

const (
	CheckActorUser = "user"
	CheckActorHost = "host"

	CheckDirectionIn  = "in"
	CheckDirectionOut = "out"
)
