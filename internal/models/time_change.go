package models

import "time"

// TimeChange is a client-proposed amendment to a custom booking's schedule.
// At most one pending row may exist per booking.
type TimeChange struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"index" json:"booking_id"`

	OldDay       string `gorm:"size:3" json:"old_day"`
	OldStartDate string `gorm:"size:10" json:"old_start_date"`
	OldStartTime string `gorm:"size:5" json:"old_start_time"`
	OldEndDate   string `gorm:"size:10" json:"old_end_date"`
	OldEndTime   string `gorm:"size:5" json:"old_end_time"`

	NewDay       string `gorm:"size:3" json:"new_day"`
	NewStartDate string `gorm:"size:10" json:"new_start_date"`
	NewStartTime string `gorm:"size:5" json:"new_start_time"`
	NewEndDate   string `gorm:"size:10" json:"new_end_date"`
	NewEndTime   string `gorm:"size:5" json:"new_end_time"`

	Status string `gorm:"size:10;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
