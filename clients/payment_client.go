package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gamestore/storefront/models"
)

// PaymentClient communicates with the payment backend via HTTP
type PaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPaymentClient creates a new PaymentClient
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// IntentRequest is the payload sent to create a payment intent.
type IntentRequest struct {
	OrderID       string               `json:"order_id"`
	Amount        float64              `json:"amount"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Card          *models.CardDetails  `json:"card,omitempty"`
	Pix           *models.PixDetails   `json:"pix,omitempty"`
}

// IntentResponse is the gateway's reply to intent creation. The intent
// identifier has moved between fields across gateway releases, so all
// known spellings are read; IntentIdentifier resolves them in order.
type IntentResponse struct {
	IntentID      string `json:"intent_id"`
	IntentIDCamel string `json:"intentId"`
	ID            string `json:"id"`
	Status        string `json:"status,omitempty"`
	Message       string `json:"message,omitempty"`
}

// IntentIdentifier returns the first non-empty identifier field, or "".
// Callers must treat "" as a failed intent creation even on a 2xx reply.
func (r IntentResponse) IntentIdentifier() string {
	for _, id := range []string{r.IntentID, r.IntentIDCamel, r.ID} {
		if id != "" {
			return id
		}
	}
	return ""
}

// CaptureRequest is the payload sent to capture a payment intent.
type CaptureRequest struct {
	OrderID       string               `json:"order_id"`
	Amount        float64              `json:"amount"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Card          *models.CardDetails  `json:"card,omitempty"`
	Pix           *models.PixDetails   `json:"pix,omitempty"`
}

// CaptureResponse is the gateway's reply to a capture call. The gateway's
// response shape is not standardized: depending on the processor route it
// reports an explicit status, a boolean flag, or only a flow descriptor.
type CaptureResponse struct {
	Status     string `json:"status,omitempty"`
	Success    *bool  `json:"success,omitempty"`
	Flow       string `json:"flow,omitempty"`
	ReasonCode string `json:"reason_code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// acceptedStatuses are the explicit status values that mean the capture
// went through, compared case-insensitively.
var acceptedStatuses = []string{"SUCCESS", "APPROVED", "AUTHORIZED"}

// Accepted reports whether the gateway accepted the capture. Checks run
// in a fixed order against the known response shapes:
//  1. an explicit status value in SUCCESS/APPROVED/AUTHORIZED,
//  2. an explicit boolean success flag,
//  3. a flow descriptor containing "AUTHORIZATION".
//
// Any one match means accepted. Do not collapse this into a single status
// check; the gateway emits each shape on different processor routes.
func (r CaptureResponse) Accepted() bool {
	for _, s := range acceptedStatuses {
		if strings.EqualFold(r.Status, s) {
			return true
		}
	}
	if r.Success != nil && *r.Success {
		return true
	}
	if strings.Contains(strings.ToUpper(r.Flow), "AUTHORIZATION") {
		return true
	}
	return false
}

// CreatePaymentIntent asks the gateway for a short-lived intent
// authorizing a single capture of the given amount.
func (c *PaymentClient) CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*IntentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/payments/merchant/v1/payment-intents", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment intent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment intent failed: %s", errorMessage(resp))
	}

	var intent IntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CapturePayment charges the funds authorized by intentID. The intent is
// consumed whether or not the gateway accepts.
func (c *PaymentClient) CapturePayment(ctx context.Context, intentID string, req *CaptureRequest) (*CaptureResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/payments/merchant/v1/payment-intents/%s/capture", c.baseURL, intentID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment capture request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment capture failed: %s", errorMessage(resp))
	}

	var capture CaptureResponse
	if err := json.NewDecoder(resp.Body).Decode(&capture); err != nil {
		return nil, err
	}
	return &capture, nil
}

// FinalizeOrder tells the payment backend to mark the order approved.
// Post-capture bookkeeping; callers treat failures as non-fatal.
func (c *PaymentClient) FinalizeOrder(ctx context.Context, orderID string) error {
	url := fmt.Sprintf("%s/payments/finalize/%s", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("order finalization request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("order finalization failed: %s", errorMessage(resp))
	}
	return nil
}

// GetPaymentStatus fetches the backend's view of a payment
func (c *PaymentClient) GetPaymentStatus(ctx context.Context, paymentID string) (*models.PaymentStatus, error) {
	return c.getStatus(ctx, fmt.Sprintf("%s/payments/%s/status", c.baseURL, paymentID))
}

// GetPaymentByOrderID fetches the payment recorded for an order
func (c *PaymentClient) GetPaymentByOrderID(ctx context.Context, orderID string) (*models.PaymentStatus, error) {
	return c.getStatus(ctx, fmt.Sprintf("%s/payments/order/%s", c.baseURL, orderID))
}

func (c *PaymentClient) getStatus(ctx context.Context, url string) (*models.PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("payment not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment status failed: %s", errorMessage(resp))
	}

	var status models.PaymentStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
