// Package payment is the thin contract surface of the external payment
// gateway. Session creation happens on the gateway; this client only asks
// for one.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/petrin/storefront/internal/apperr"
)

// Session is a gateway checkout session the buyer is redirected to.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		BaseURL: baseURL,
		APIKey:  apiKey,
	}
}

type sessionRequest struct {
	UserID   string `json:"user_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// CreateSession asks the gateway for a checkout session over the given
// amount. Gateway failures surface as storage errors: retryable by the
// caller, never by this client.
func (c *Client) CreateSession(ctx context.Context, userID string, amount decimal.Decimal, currency string) (*Session, error) {
	body, _ := json.Marshal(sessionRequest{
		UserID:   userID,
		Amount:   amount.StringFixed(2),
		Currency: currency,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/checkout/sessions", c.BaseURL), bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Storage("build gateway request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperr.Storage("call payment gateway", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return nil, apperr.Storage("payment gateway", fmt.Errorf("unexpected status %s", res.Status))
	}
	var s Session
	if err := json.NewDecoder(res.Body).Decode(&s); err != nil {
		return nil, apperr.Storage("decode gateway response", err)
	}
	return &s, nil
}
