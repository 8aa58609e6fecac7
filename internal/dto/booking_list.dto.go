package dto

import "github.com/parqio/spot-booking/internal/models"

// BookingListDTO is the flattened row returned by the booking list endpoints.
type BookingListDTO struct {
	ID        uint   `json:"id"`
	SpotID    uint   `json:"spot_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Day       string `json:"day"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`

	GrossAmount float64 `json:"gross_amount"`
	CanceledBy  *string `json:"canceled_by,omitempty"`
}

func FromBooking(b *models.Booking) BookingListDTO {
	return BookingListDTO{
		ID:          b.ID,
		SpotID:      b.SpotID,
		Type:        b.Type,
		Status:      b.Status,
		Day:         b.Day,
		StartDate:   b.StartDate,
		StartTime:   b.StartTime,
		EndDate:     b.EndDate,
		EndTime:     b.EndTime,
		GrossAmount: b.GrossAmount,
		CanceledBy:  b.CanceledBy,
	}
}

func FromBookings(bs []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bs))
	for i := range bs {
		out = append(out, FromBooking(&bs[i]))
	}
	return out
}
