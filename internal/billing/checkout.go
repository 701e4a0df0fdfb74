// Package billing integrates the payment processor: creating checkout
// sessions for credit packs and fulfilling their webhooks. The pipeline never
// touches this package; credits flow in only through confirmed payments.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"admaker/internal/domain"
)

// ErrMissingAPIKey is returned when the processor API key is not configured.
var ErrMissingAPIKey = errors.New("billing: missing API key")

// CheckoutSession is the subset of the processor's session object we use.
type CheckoutSession struct {
	ID                string            `json:"id"`
	URL               string            `json:"url"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

// Options configures a checkout Client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client creates hosted checkout sessions against a Stripe-style API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a checkout client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CheckoutParams describes one credit-pack purchase.
type CheckoutParams struct {
	UserID     string
	Pack       domain.CreditPack
	SuccessURL string
	CancelURL  string
}

// CreateSession creates a hosted checkout session for a credit pack. The
// user id travels as client_reference_id and the pack size as metadata, so
// the webhook can fulfill without a database lookup.
func (c *Client) CreateSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(params.Pack.AmountCents))
	form.Set("line_items[0][price_data][product_data][name]", fmt.Sprintf("%d credits", params.Pack.Credits))
	form.Set("line_items[0][price_data][product_data][description]", fmt.Sprintf("%d AI product photos.", params.Pack.Credits))
	form.Set("line_items[0][quantity]", "1")
	form.Set("client_reference_id", params.UserID)
	form.Set("metadata[credits]", strconv.Itoa(params.Pack.Credits))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("billing: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("billing: create session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("billing: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Msg("checkout session creation rejected")
		return nil, fmt.Errorf("billing: create session: status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("billing: decode session: %w", err)
	}
	if session.URL == "" {
		return nil, errors.New("billing: session has no redirect URL")
	}

	return &session, nil
}
