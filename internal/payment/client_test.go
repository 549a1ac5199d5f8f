package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/petrin/storefront/internal/apperr"
)

func newGatewayServer(t *testing.T, status int) (*httptest.Server, *sessionRequest) {
	t.Helper()
	var got sessionRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/checkout/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			http.Error(w, `{"error":"missing key"}`, http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, `{"error":"bad json"}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(Session{ID: "cs_123", URL: "https://gateway.test/pay/cs_123"})
	})
	return httptest.NewServer(mux), &got
}

func TestCreateSession_OK(t *testing.T) {
	srv, got := newGatewayServer(t, http.StatusCreated)
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	s, err := c.CreateSession(context.Background(), "u1", decimal.RequireFromString("45"), "usd")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if s.ID != "cs_123" || s.URL == "" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if got.Amount != "45.00" || got.Currency != "usd" || got.UserID != "u1" {
		t.Fatalf("gateway saw wrong request: %+v", got)
	}
}

// The gateway contract is a fixed two-decimal amount, whatever precision
// the cart total carried.
func TestCreateSession_AmountIsFixedPrecision(t *testing.T) {
	cases := []struct {
		total string
		want  string
	}{
		{"45", "45.00"},
		{"45.5", "45.50"},
		{"45.00", "45.00"},
		{"0.1", "0.10"},
	}
	for _, tc := range cases {
		srv, got := newGatewayServer(t, http.StatusCreated)
		c := NewClient(srv.URL, "sk_test")
		if _, err := c.CreateSession(context.Background(), "u1", decimal.RequireFromString(tc.total), "usd"); err != nil {
			t.Fatalf("total %s: %v", tc.total, err)
		}
		if got.Amount != tc.want {
			t.Errorf("total %s: gateway saw amount %q, expected %q", tc.total, got.Amount, tc.want)
		}
		srv.Close()
	}
}

func TestCreateSession_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"down"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	_, err := c.CreateSession(context.Background(), "u1", decimal.NewFromInt(10), "usd")
	if !apperr.IsStorage(err) {
		t.Fatalf("got %v, expected storage error", err)
	}
}
