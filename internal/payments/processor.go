package payments

import "context"

// Intent is the processor-side artifact backing one payment attempt.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusCanceled  = "canceled"
)

// Processor is the payment-processor surface the booking core depends on.
// Amounts are minor currency units. Write failures are fatal to the attempt
// and must never be silently retried (a charge is not an idempotent read).
type Processor interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*Intent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error)
	CancelPaymentIntent(ctx context.Context, id string) error
	RefundPayment(ctx context.Context, intentID string) error
	CreateTransfer(ctx context.Context, amountMinor int64, destinationAccount string, metadata map[string]string) (string, error)
}
