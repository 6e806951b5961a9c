// Package clients holds the HTTP clients for the storefront's remote
// collaborators: the game catalog, the order backend, and the payment
// backend. All of them live behind the same base URL.
package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// errorMessage pulls the server-provided message out of a non-2xx body.
// The backend is not consistent: some endpoints use "error", others
// "message". Falls back to the status code.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return fmt.Sprintf("backend returned %d", resp.StatusCode)
}
