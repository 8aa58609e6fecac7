package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/refund"
	"github.com/stripe/stripe-go/v79/transfer"
)

// StripeProcessor talks to Stripe with per-call idempotency keys so a network
// blip cannot double-charge when the caller retries a whole operation.
type StripeProcessor struct {
	secretKey string
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	return &StripeProcessor{secretKey: secretKey}
}

func (s *StripeProcessor) CreatePaymentIntent(
	ctx context.Context,
	amountMinor int64,
	currency string,
	metadata map[string]string,
) (*Intent, error) {

	stripe.Key = s.secretKey

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

func (s *StripeProcessor) RetrievePaymentIntent(
	ctx context.Context,
	id string,
) (*Intent, error) {

	stripe.Key = s.secretKey

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

func (s *StripeProcessor) CancelPaymentIntent(
	ctx context.Context,
	id string,
) error {

	stripe.Key = s.secretKey

	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	_, err := paymentintent.Cancel(id, params)
	return err
}

// RefundPayment sends a captured intent's funds back in full.
func (s *StripeProcessor) RefundPayment(
	ctx context.Context,
	intentID string,
) error {

	stripe.Key = s.secretKey

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())

	_, err := refund.New(params)
	return err
}

func (s *StripeProcessor) CreateTransfer(
	ctx context.Context,
	amountMinor int64,
	destinationAccount string,
	metadata map[string]string,
) (string, error) {

	stripe.Key = s.secretKey

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amountMinor),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(destinationAccount),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	tr, err := transfer.New(params)
	if err != nil {
		return "", err
	}
	return tr.ID, nil
}

// Compile-time check
var _ Processor = (*StripeProcessor)(nil)
