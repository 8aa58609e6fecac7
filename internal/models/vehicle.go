package models

import "time"

type Vehicle struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Plate string `gorm:"size:20;not null" json:"plate"`
	Make  string `gorm:"size:50" json:"make"`
	Model string `gorm:"size:50" json:"model"`
	Color string `gorm:"size:30" json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
