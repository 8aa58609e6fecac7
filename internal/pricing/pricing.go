package pricing

import (
	"math"
	"time"

	"github.com/parqio/spot-booking/internal/httperr"
)

// Fee constants. Tax and platform cut are currently zero; the Stripe terms
// are the standard percentage + fixed cents structure.
const (
	TaxRate             = 0.0
	PlatformFee         = 0.0
	StripeFeePercentage = 0.029
	StripeFeeFixed      = 0.30

	CancellationFeePercentage = 0.30
)

// Breakdown is the full fee decomposition of one booking charge. All values
// are in major currency units rounded to 2 decimals.
type Breakdown struct {
	GrossAmount float64 `json:"gross_amount"`
	StripeFee   float64 `json:"stripe_fee"`
	TaxFee      float64 `json:"tax_fee"`
	PlatformFee float64 `json:"platform_fee"`
	TotalAmount float64 `json:"total_amount"`
}

// round2 rounds half-up to 2 decimals. Applied at the final step of each
// formula only, never to intermediate terms, so the stored breakdown always
// recomposes to the cent.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// GrossPrice computes rate_per_hour × duration in hours, 2dp.
func GrossPrice(hourlyRate float64, start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	return round2(hourlyRate * hours)
}

// ValidateGross rejects a caller-supplied gross amount that does not match
// the computed price exactly. The system never fixes a tampered price.
func ValidateGross(submitted, hourlyRate float64, start, end time.Time) error {
	if round2(submitted) != GrossPrice(hourlyRate, start, end) {
		return httperr.ErrBusiness("price_mismatch")
	}
	return nil
}

// Fees derives the charge breakdown from the gross amount. The total is
// grossed up so that after Stripe takes its cut the platform still nets
// gross + tax + platform fee.
func Fees(gross float64) Breakdown {
	total := (gross*(1+TaxRate+PlatformFee) + StripeFeeFixed) / (1 - StripeFeePercentage)

	return Breakdown{
		GrossAmount: round2(gross),
		StripeFee:   round2(total*StripeFeePercentage + StripeFeeFixed),
		TaxFee:      round2(gross * TaxRate),
		PlatformFee: round2(gross * PlatformFee),
		TotalAmount: round2(total),
	}
}

// MinorUnits converts a 2dp major-unit amount to processor minor units.
func MinorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// CancellationSplit returns what the client gets back and what the host
// gains for a cancelled booking, depending on who cancelled.
//   - client cancels: client is refunded 70% of gross, host keeps 30%.
//   - host cancels: client is refunded in full plus 30% compensation.
func CancellationSplit(gross float64, cancelledByClient bool) (clientRefund, hostGain float64) {
	penalty := round2(gross * CancellationFeePercentage)
	if cancelledByClient {
		return round2(gross - penalty), penalty
	}
	return round2(gross + penalty), -penalty
}
