package models

import "time"

// Availability is one recurring weekly open window for a spot. Windows on the
// same spot+day must not overlap; that is enforced at write time, not by the
// schema.
type Availability struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	SpotID uint `gorm:"index" json:"spot_id"`

	Day       string `gorm:"size:3;not null" json:"day"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
