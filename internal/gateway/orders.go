package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var (
	// ErrUnknownRestaurant rejects restaurant ids outside the supported set
	// before any backend call is made.
	ErrUnknownRestaurant = errors.New("unknown restaurant")
	// ErrInvalidOrder rejects structurally invalid order payloads client-side.
	ErrInvalidOrder = errors.New("invalid order")
)

// restaurants the order backend serves. Persona specialist ids match these.
var restaurants = map[string]bool{
	"burger": true,
	"pizza":  true,
	"salad":  true,
}

// ValidRestaurant reports whether the backend serves the given restaurant id.
func ValidRestaurant(id string) bool {
	return restaurants[id]
}

// OrderItem is one line of an order: a menu item id and its quantity.
type OrderItem struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// OrderClient talks to the external menu/order backend. Menu and confirmation
// payloads are passed through opaquely; pricing and menu matching are the
// backend's responsibility.
type OrderClient struct {
	baseURL string
	client  *http.Client
}

// NewOrderClient builds a client for the backend at baseURL. The timeout is
// applied per call.
func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchMenu retrieves the restaurant's menu as raw JSON.
func (c *OrderClient) FetchMenu(ctx context.Context, restaurant string) (json.RawMessage, error) {
	if !ValidRestaurant(restaurant) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRestaurant, restaurant)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+restaurant+"/menu", nil)
	if err != nil {
		return nil, fmt.Errorf("build menu request: %w", err)
	}

	return c.do(req, "menu")
}

// PlaceOrder submits the order and returns the backend's confirmation as raw
// JSON. Items are validated structurally; content correctness is left to the
// backend.
func (c *OrderClient) PlaceOrder(ctx context.Context, restaurant string, items []OrderItem) (json.RawMessage, error) {
	if !ValidRestaurant(restaurant) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRestaurant, restaurant)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d has quantity %d", ErrInvalidOrder, item.ID, item.Quantity)
		}
	}

	body, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+restaurant+"/order", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "order")
}

func (c *OrderClient) do(req *http.Request, op string) (json.RawMessage, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[gateway] %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
		return nil, fmt.Errorf("%s backend returned status %d", op, resp.StatusCode)
	}

	return json.RawMessage(payload), nil
}
