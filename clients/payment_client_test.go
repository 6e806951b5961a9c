package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCaptureResponse_Accepted(t *testing.T) {
	yes := true
	no := false

	tests := []struct {
		name     string
		resp     CaptureResponse
		accepted bool
	}{
		{"status success", CaptureResponse{Status: "SUCCESS"}, true},
		{"status approved", CaptureResponse{Status: "APPROVED"}, true},
		{"status authorized lowercase", CaptureResponse{Status: "authorized"}, true},
		{"success flag", CaptureResponse{Success: &yes}, true},
		{"flow descriptor", CaptureResponse{Flow: "CREDIT_AUTHORIZATION"}, true},
		{"flow descriptor lowercase", CaptureResponse{Flow: "pix_authorization_v2"}, true},
		{"declined without other flags", CaptureResponse{Status: "DECLINED"}, false},
		{"explicit false flag", CaptureResponse{Success: &no}, false},
		{"unrelated flow", CaptureResponse{Flow: "CREDIT_REFUND"}, false},
		{"empty response", CaptureResponse{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.accepted, tc.resp.Accepted())
		})
	}
}

func TestIntentResponse_IntentIdentifier(t *testing.T) {
	assert.Equal(t, "a", IntentResponse{IntentID: "a", ID: "c"}.IntentIdentifier())
	assert.Equal(t, "b", IntentResponse{IntentIDCamel: "b"}.IntentIdentifier())
	assert.Equal(t, "c", IntentResponse{ID: "c"}.IntentIdentifier())
	assert.Equal(t, "", IntentResponse{Status: "CREATED"}.IntentIdentifier())
}

func TestCreatePaymentIntent_ParsesCamelCaseID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/merchant/v1/payment-intents", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req IntentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "order-1", req.OrderID)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"intentId":"pi_123","status":"CREATED"}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)
	intent, err := client.CreatePaymentIntent(context.Background(), &IntentRequest{OrderID: "order-1", Amount: 10})

	assert.NoError(t, err)
	assert.Equal(t, "pi_123", intent.IntentIdentifier())
}

func TestCreatePaymentIntent_SurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"merchant disabled"}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)
	_, err := client.CreatePaymentIntent(context.Background(), &IntentRequest{OrderID: "order-1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "merchant disabled")
}

func TestCapturePayment_HitsIntentPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/merchant/v1/payment-intents/pi_123/capture", r.URL.Path)
		w.Write([]byte(`{"flow":"CREDIT_AUTHORIZATION","message":"ok"}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)
	capture, err := client.CapturePayment(context.Background(), "pi_123", &CaptureRequest{OrderID: "order-1", Amount: 10})

	assert.NoError(t, err)
	assert.True(t, capture.Accepted())
	assert.Equal(t, "ok", capture.Message)
}

func TestCapturePayment_NonOKCarriesBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"limite insuficiente"}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)
	_, err := client.CapturePayment(context.Background(), "pi_123", &CaptureRequest{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "limite insuficiente")
}

func TestFinalizeOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/finalize/order-1", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)

	assert.NoError(t, client.FinalizeOrder(context.Background(), "order-1"))
}

func TestFinalizeOrder_ErrorOnNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)
	err := client.FinalizeOrder(context.Background(), "order-1")

	assert.Error(t, err)
}

func TestGetPaymentByOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/order/order-1", r.URL.Path)
		w.Write([]byte(`{"id":"pay-9","order_id":"order-1","status":"SUCCESS"}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)
	status, err := client.GetPaymentByOrderID(context.Background(), "order-1")

	assert.NoError(t, err)
	assert.Equal(t, "pay-9", status.ID)
	assert.Equal(t, "SUCCESS", status.Status)
}
