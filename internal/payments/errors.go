package payments

import "errors"

// Checkout failures, one per stage. Callers match them with errors.Is.
var (
	ErrGatewayUnavailable = errors.New("payment gateway is unavailable")
	ErrOrderFailed        = errors.New("could not create payment order")
	ErrPaymentCancelled   = errors.New("payment was cancelled")
	ErrVerificationFailed = errors.New("payment verification failed")
)

// ErrDismissed is returned by a Widget when the buyer closes it without paying
var ErrDismissed = errors.New("checkout dismissed")

// StepError ties a stage failure to its cause
type StepError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
