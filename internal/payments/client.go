// Package payments wraps the external payment provider's HTTP API. The
// contract is deliberately narrow: create-product, create-price and
// create-checkout-session, each a single synchronous call.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    hc,
	}
}

// ProviderError carries the provider's HTTP status so callers can log it;
// the checkout flow treats any ProviderError as terminal.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider error (status %d): %s", e.Status, e.Message)
}

type createProductReq struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type createProductResp struct {
	ID string `json:"id"`
}

func (c *Client) CreateProduct(ctx context.Context, name, description string) (string, error) {
	var out createProductResp
	if err := c.post(ctx, "/v1/products", createProductReq{Name: name, Description: description}, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &ProviderError{Status: http.StatusOK, Message: "missing product id in response"}
	}
	return out.ID, nil
}

type createPriceReq struct {
	Product    string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

type createPriceResp struct {
	ID string `json:"id"`
}

func (c *Client) CreatePrice(ctx context.Context, productRef string, amountCents int64, currency string) (string, error) {
	req := createPriceReq{
		Product:    productRef,
		UnitAmount: amountCents,
		Currency:   strings.ToLower(currency),
	}
	var out createPriceResp
	if err := c.post(ctx, "/v1/prices", req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &ProviderError{Status: http.StatusOK, Message: "missing price id in response"}
	}
	return out.ID, nil
}

// SessionLineItem references a pre-registered price, or carries an inline
// price for per-order amounts such as shipping.
type SessionLineItem struct {
	PriceRef   string `json:"price,omitempty"`
	Quantity   uint32 `json:"quantity"`
	Name       string `json:"name,omitempty"`
	UnitAmount int64  `json:"unit_amount,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

type SessionRequest struct {
	LineItems        []SessionLineItem `json:"line_items"`
	CustomerEmail    string            `json:"customer_email,omitempty"`
	SuccessURL       string            `json:"success_url"`
	CancelURL        string            `json:"cancel_url"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	AllowedCountries []string          `json:"allowed_countries,omitempty"`
	CollectPhone     bool              `json:"collect_phone,omitempty"`
}

type SessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.post(ctx, "/v1/checkout/sessions", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.URL == "" {
		return nil, &ProviderError{Status: http.StatusOK, Message: "incomplete session in response"}
	}
	return &out, nil
}

type errorResp struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("payment provider response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eresp errorResp
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &eresp) == nil && eresp.Error.Message != "" {
			msg = eresp.Error.Message
		}
		return &ProviderError{Status: resp.StatusCode, Message: msg}
	}
	return json.Unmarshal(data, out)
}
