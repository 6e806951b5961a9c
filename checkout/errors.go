package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrMissingIntentID = errors.New("intentId not returned")
)

// StageError reports which pipeline stage failed. Failures stop the
// pipeline; there are no compensating transactions, the user retries
// from scratch.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("checkout failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// DeclineError is a business decline from the gateway: the capture call
// itself succeeded but the payment was not accepted.
type DeclineError struct {
	ReasonCode string
	Message    string
}

func (e *DeclineError) Error() string {
	if e.Message != "" {
		return "payment declined: " + e.Message
	}
	return "payment declined"
}

// PaymentErrorKind classifies a capture transport error into a
// user-facing reason.
type PaymentErrorKind string

const (
	InsufficientFunds   PaymentErrorKind = "INSUFFICIENT_FUNDS"
	InvalidCard         PaymentErrorKind = "INVALID_CARD"
	GenericPaymentError PaymentErrorKind = "PAYMENT_ERROR"
)

// PaymentError carries the classified reason plus the gateway's raw
// message, which is preserved for the generic case.
type PaymentError struct {
	Kind    PaymentErrorKind
	Message string
}

func (e *PaymentError) Error() string {
	return e.Message
}

// The gateway reports declines through free-text transport errors, in
// Portuguese or English depending on the processor route. Classification
// is by substring, checked lowercased.
var (
	insufficientPhrases = []string{
		"insufficient limit",
		"insufficient funds",
		"limite insuficiente",
		"saldo insuficiente",
	}
	cardNotFoundPhrases = []string{
		"card not found",
		"cartão não encontrado",
		"cartao nao encontrado",
	}
)

// ClassifyCaptureError maps a capture transport error onto the payment
// error taxonomy. Unrecognized messages fall through to
// GenericPaymentError with the original text preserved.
func ClassifyCaptureError(err error) *PaymentError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	for _, phrase := range insufficientPhrases {
		if strings.Contains(lower, phrase) {
			return &PaymentError{Kind: InsufficientFunds, Message: msg}
		}
	}
	for _, phrase := range cardNotFoundPhrases {
		if strings.Contains(lower, phrase) {
			return &PaymentError{Kind: InvalidCard, Message: msg}
		}
	}
	return &PaymentError{Kind: GenericPaymentError, Message: msg}
}
