package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"index" json:"client_id"`
	HostID   uint `gorm:"index" json:"host_id"`

	SpotID uint `gorm:"index" json:"spot_id"`
	Spot   Spot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	VehicleID uint    `json:"vehicle_id"`
	Vehicle   Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Wall-clock fields as submitted, interpreted in the spot's timezone.
	Day       string `gorm:"size:3" json:"day"`
	StartDate string `gorm:"size:10" json:"start_date"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndDate   string `gorm:"size:10" json:"end_date"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	// Resolved instants, kept alongside the wall-clock fields so conflict
	// queries and the exclusion constraint work on plain timestamps.
	StartAt time.Time `gorm:"index" json:"start_at"`
	EndAt   time.Time `json:"end_at"`

	Type        string  `gorm:"size:10;default:'normal'" json:"type"`
	GrossAmount float64 `json:"gross_amount"`

	Status     string  `gorm:"size:20;default:'request-pending'" json:"status"`
	CanceledBy *string `gorm:"size:10" json:"canceled_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
