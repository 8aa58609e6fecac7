package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/parqio/spot-booking/internal/config"
	"github.com/parqio/spot-booking/internal/httperr"
	ucbooking "github.com/parqio/spot-booking/internal/usecase/booking"
)

// StripeWebhookHandler is the asynchronous confirmation path: Stripe tells us
// the intent's fate and we apply it exactly like the client-initiated
// confirmation call would.
type StripeWebhookHandler struct {
	config  *config.Config
	confirm *ucbooking.ConfirmPayment
}

func NewStripeWebhookHandler(cfg *config.Config, confirm *ucbooking.ConfirmPayment) *StripeWebhookHandler {
	return &StripeWebhookHandler{config: cfg, confirm: confirm}
}

const maxWebhookBody = 64 << 10

func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.BadRequest(c, "invalid_payload", "Could not read body.")
		return
	}

	event, err := webhook.ConstructEventWithTolerance(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.config.StripeWebhookSecret,
		5*time.Minute,
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_signature", "Webhook signature verification failed.")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			httperr.BadRequest(c, "invalid_event", "Could not decode payment intent.")
			return
		}

		if _, err := h.confirm.ApplyIntentStatus(c.Request.Context(), pi.ID, string(pi.Status)); err != nil {
			// The race loser surfaces here too; Stripe only needs a 2xx so it
			// stops retrying, the booking state is already settled.
			if httperr.IsBusiness(err, "booking_conflict") || httperr.IsBusiness(err, "invalid_state") {
				c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
				return
			}
			log.Printf("webhook: apply intent %s failed: %v", pi.ID, err)
			httperr.Internal(c, "webhook_failed", "Could not apply intent status.")
			return
		}

	default:
		// unhandled event types are acknowledged and dropped
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
