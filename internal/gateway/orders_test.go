package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roadbite/roadbite/internal/gateway"
)

func TestFetchMenuPassesPayloadThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/burger/menu" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"items":[{"id":3,"name":"Bacon Burger","price":12.99}]}`))
	}))
	defer srv.Close()

	client := gateway.NewOrderClient(srv.URL, 5*time.Second)
	menu, err := client.FetchMenu(context.Background(), "burger")
	if err != nil {
		t.Fatalf("FetchMenu err: %v", err)
	}

	var parsed struct {
		Items []struct {
			ID int `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(menu, &parsed); err != nil {
		t.Fatalf("menu not valid JSON: %v", err)
	}
	if len(parsed.Items) != 1 || parsed.Items[0].ID != 3 {
		t.Fatalf("payload altered in transit: %s", menu)
	}
}

func TestFetchMenuRejectsUnknownRestaurantBeforeCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := gateway.NewOrderClient(srv.URL, 5*time.Second)
	_, err := client.FetchMenu(context.Background(), "sushi")
	if !errors.Is(err, gateway.ErrUnknownRestaurant) {
		t.Fatalf("expected ErrUnknownRestaurant, got %v", err)
	}
	if called {
		t.Fatal("backend was called for an unknown restaurant")
	}
}

func TestPlaceOrderSendsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/pizza/order" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Items []gateway.OrderItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode order body: %v", err)
		}
		if len(body.Items) != 1 || body.Items[0].ID != 2 || body.Items[0].Quantity != 1 {
			t.Errorf("unexpected items: %+v", body.Items)
		}
		w.Write([]byte(`{"confirmation":{"total":12.99}}`))
	}))
	defer srv.Close()

	client := gateway.NewOrderClient(srv.URL, 5*time.Second)
	conf, err := client.PlaceOrder(context.Background(), "pizza", []gateway.OrderItem{{ID: 2, Quantity: 1}})
	if err != nil {
		t.Fatalf("PlaceOrder err: %v", err)
	}
	if len(conf) == 0 {
		t.Fatal("empty confirmation payload")
	}
}

func TestPlaceOrderRejectsInvalidItems(t *testing.T) {
	client := gateway.NewOrderClient("http://unused.invalid", time.Second)

	if _, err := client.PlaceOrder(context.Background(), "salad", nil); !errors.Is(err, gateway.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for empty items, got %v", err)
	}

	items := []gateway.OrderItem{{ID: 1, Quantity: 0}}
	if _, err := client.PlaceOrder(context.Background(), "salad", items); !errors.Is(err, gateway.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for zero quantity, got %v", err)
	}
}

func TestBackendErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := gateway.NewOrderClient(srv.URL, 5*time.Second)
	if _, err := client.FetchMenu(context.Background(), "salad"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
