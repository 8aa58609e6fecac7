package booking

import "github.com/parqio/spot-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusRequestPending Status = "request-pending"
	StatusPaymentPending Status = "payment-pending"
	StatusAccepted       Status = "accepted"
	StatusRejected       Status = "rejected"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

type CancelActor string

const (
	CancelledByClient CancelActor = "client"
	CancelledByHost   CancelActor = "host"
	CancelledByAdmin  CancelActor = "admin"
)

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current == StatusCancelled {
		return httperr.ErrBusiness("already_cancelled")
	}
	return nil
}

// CanAcceptRequest gates the host approving a custom request.
func CanAcceptRequest(current Status) error {
	if current != StatusRequestPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanDeny: a request may only be hard-deleted while still pre-acceptance.
func CanDeny(current Status) error {
	if current != StatusRequestPending && current != StatusPaymentPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanConfirmPayment(current Status) error {
	if current != StatusPaymentPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusAccepted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// ===============================
// TimeChange Status
// ===============================

type TimeChangeStatus string

const (
	TimeChangePending  TimeChangeStatus = "pending"
	TimeChangeAccepted TimeChangeStatus = "accepted"
	TimeChangeRejected TimeChangeStatus = "rejected"
)
