package models

import "time"

type Payment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"index" json:"booking_id"`

	GrossAmount float64 `json:"gross_amount"`
	StripeFee   float64 `json:"stripe_fee"`
	TaxFee      float64 `json:"tax_fee"`
	PlatformFee float64 `json:"platform_fee"`
	TotalAmount float64 `json:"total_amount"`

	IntentID     string `gorm:"size:64;index" json:"intent_id"`
	ClientSecret string `gorm:"size:128" json:"-"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusRefunded  = "refunded"
)
