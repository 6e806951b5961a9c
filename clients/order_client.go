package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gamestore/storefront/models"
)

// OrderClient communicates with the order backend via HTTP
type OrderClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOrderClient creates a new OrderClient
func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// CreateOrder submits the cart's line items as a new order. Line items
// are immutable after this call.
func (c *OrderClient) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/orders", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("order service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("order creation failed: %s", errorMessage(resp))
	}

	var order models.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByID fetches a single order
func (c *OrderClient) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order lookup failed: %s", errorMessage(resp))
	}

	var order models.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func filterParams(filter *models.OrderListFilter) url.Values {
	params := url.Values{}
	if filter == nil {
		return params
	}
	params.Set("page", strconv.Itoa(filter.Page))
	if filter.Size > 0 {
		params.Set("size", strconv.Itoa(filter.Size))
	}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.PaymentStatus != "" {
		params.Set("paymentStatus", filter.PaymentStatus)
	}
	if filter.OwnerID > 0 {
		params.Set("userId", strconv.FormatInt(filter.OwnerID, 10))
	}
	if filter.SortBy != "" {
		params.Set("sortBy", filter.SortBy)
	}
	if filter.SortDirection != "" {
		params.Set("sortDirection", filter.SortDirection)
	}
	return params
}

func (c *OrderClient) listOrders(ctx context.Context, path string, filter *models.OrderListFilter) (*models.OrderPage, error) {
	url := fmt.Sprintf("%s%s?%s", c.baseURL, path, filterParams(filter).Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order listing failed: %s", errorMessage(resp))
	}

	var page models.OrderPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListOrders returns the caller's orders, paged
func (c *OrderClient) ListOrders(ctx context.Context, filter *models.OrderListFilter) (*models.OrderPage, error) {
	return c.listOrders(ctx, "/orders", filter)
}

// ListAllOrders returns all orders across users (admin back-office)
func (c *OrderClient) ListAllOrders(ctx context.Context, filter *models.OrderListFilter) (*models.OrderPage, error) {
	return c.listOrders(ctx, "/admin/orders", filter)
}

func (c *OrderClient) updateOrder(ctx context.Context, orderID, path string, payload any) (*models.Order, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/admin/orders/%s/%s", c.baseURL, orderID, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order update failed: %s", errorMessage(resp))
	}

	var order models.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus sets an order's fulfilment status (admin back-office)
func (c *OrderClient) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	return c.updateOrder(ctx, orderID, "status", map[string]string{"status": string(status)})
}

// UpdatePaymentStatus sets an order's payment status (admin back-office)
func (c *OrderClient) UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) (*models.Order, error) {
	return c.updateOrder(ctx, orderID, "payment-status", map[string]string{"paymentStatus": paymentStatus})
}
