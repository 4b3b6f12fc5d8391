package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sessionsPath = "/v1/checkout/sessions"

// CheckoutClient creates hosted checkout sessions with the payment provider.
type CheckoutClient struct {
	baseURL    string
	secretKey  string
	priceID    string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

// NewCheckoutClient constructs a checkout client.
func NewCheckoutClient(baseURL, secretKey, priceID, successURL, cancelURL string) (*CheckoutClient, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, fmt.Errorf("PAY_SECRET_KEY is required")
	}
	if strings.TrimSpace(priceID) == "" {
		return nil, fmt.Errorf("PAY_PRICE_ID is required")
	}
	return &CheckoutClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		priceID:    priceID,
		successURL: successURL,
		cancelURL:  cancelURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Session is the provider's view of a created checkout session.
type Session struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Customer string `json:"customer"`
}

type sessionResponse struct {
	Session
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateSession opens a one-time-payment checkout session for the given user
// and returns the hosted payment page to redirect to. The user id travels in
// session metadata so the completion webhook can attribute the payment.
func (c *CheckoutClient) CreateSession(ctx context.Context, userID, email string) (Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price]", c.priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("client_reference_id", uuid.NewString())
	form.Set("metadata[user_id]", userID)
	if email != "" {
		form.Set("customer_email", email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sessionsPath, strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	var payload sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Session{}, fmt.Errorf("create checkout session: decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unexpected provider response"
		if payload.Error != nil && payload.Error.Message != "" {
			msg = payload.Error.Message
		}
		return Session{}, fmt.Errorf("create checkout session: status %d: %s", resp.StatusCode, msg)
	}
	if payload.ID == "" || payload.URL == "" {
		return Session{}, fmt.Errorf("create checkout session: provider returned no session")
	}
	return payload.Session, nil
}
