package models

import "errors"

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodBoleto     PaymentMethod = "BOLETO"
)

// CardDetails carries the card fields for card payments.
type CardDetails struct {
	Number      string `json:"card_number"`
	HolderName  string `json:"card_holder_name"`
	ExpiryMonth int    `json:"card_expiry_month"`
	ExpiryYear  int    `json:"card_expiry_year"`
	CVV         string `json:"card_cvv"`
}

// PixDetails carries the pix key for pix payments.
type PixDetails struct {
	Key string `json:"pix_key"`
}

// PaymentDetails is a union keyed by Method: card methods require Card,
// PIX requires Pix. Exactly one branch is set.
type PaymentDetails struct {
	Method PaymentMethod `json:"payment_method"`
	Card   *CardDetails  `json:"card,omitempty"`
	Pix    *PixDetails   `json:"pix,omitempty"`
}

var (
	ErrMissingCardDetails = errors.New("card payment requires card details")
	ErrMissingPixKey      = errors.New("pix payment requires a pix key")
	ErrUnknownMethod      = errors.New("unknown payment method")
)

// Validate checks that the branch matching Method is populated.
func (d PaymentDetails) Validate() error {
	switch d.Method {
	case PaymentMethodCreditCard, PaymentMethodDebitCard:
		if d.Card == nil || d.Card.Number == "" || d.Card.HolderName == "" || d.Card.CVV == "" {
			return ErrMissingCardDetails
		}
	case PaymentMethodPix:
		if d.Pix == nil || d.Pix.Key == "" {
			return ErrMissingPixKey
		}
	case PaymentMethodBoleto:
		// No extra fields: the backend issues the boleto.
	default:
		return ErrUnknownMethod
	}
	return nil
}

// PaymentIntent is a server-issued token authorizing a single capture
// attempt for a given amount.
type PaymentIntent struct {
	IntentID string  `json:"intent_id"`
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
}

// PaymentStatus is the backend's view of a payment, queried by payment or
// order id.
type PaymentStatus struct {
	ID      string  `json:"id"`
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount,omitempty"`
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
}
