package models

import "time"

type Spot struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	HostID uint `gorm:"index" json:"host_id"`
	Host   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Title       string  `gorm:"size:100;not null" json:"title"`
	Description string  `gorm:"size:255" json:"description"`
	HourlyRate  float64 `json:"hourly_rate"`
	Status      string  `gorm:"size:20;default:'draft'" json:"status"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// IANA zone resolved from coordinates at create/relocate time. All of the
	// spot's wall-clock booking fields are interpreted in this zone.
	Timezone string `gorm:"size:64;default:'UTC'" json:"timezone"`

	PhotoURL string `gorm:"size:255" json:"photo_url"`

	Availabilities []Availability `gorm:"constraint:OnDelete:CASCADE;" json:"availabilities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	SpotStatusDraft     = "draft"
	SpotStatusPublished = "published"
)
