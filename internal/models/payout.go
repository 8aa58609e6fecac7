package models

import "time"

type Payout struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Amount           float64 `json:"amount"`
	StripeTransferID string  `gorm:"size:64" json:"stripe_transfer_id"`
	Status           string  `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PayoutStatusPending = "pending"
	PayoutStatusPaid    = "paid"
	PayoutStatusFailed  = "failed"
)
