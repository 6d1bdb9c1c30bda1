package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://accept.paymob.com"

type Config struct {
	BaseURL       string
	APIKey        string
	IntegrationID int
	IframeID      string
	Timeout       time.Duration
	RetryCount    int
	RetryWait     time.Duration
	KeyExpiry     time.Duration
}

type Billing struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Street    string
	City      string
}

type CheckoutRequest struct {
	MerchantOrderID string
	AmountCents     int64
	Currency        string
	Billing         Billing
}

type Checkout struct {
	PaymobOrderID string `json:"paymobOrderId"`
	PaymentToken  string `json:"-"`
	IframeURL     string `json:"iframeUrl"`
}

// Gateway is the payment provider used by the checkout flow.
type Gateway interface {
	Checkout(ctx context.Context, req CheckoutRequest) (Checkout, error)
}

type Client struct {
	cfg  Config
	http *resty.Client
	// once sends requests that must not be repeated.
	once *resty.Client
}

type tokenResponse struct {
	Token string `json:"token"`
}

type orderResponse struct {
	ID int64 `json:"id"`
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}
	if cfg.KeyExpiry == 0 {
		cfg.KeyExpiry = time.Hour
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:  cfg,
		http: newHTTPClient(cfg).SetRetryCount(cfg.RetryCount),
		once: newHTTPClient(cfg),
	}
}

func newHTTPClient(cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait * 8).
		AddRetryCondition(shouldRetry)
}

// shouldRetry retries transport failures, throttling and server errors. A 401 is final.
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		return false
	case code == http.StatusTooManyRequests:
		return true
	case code >= http.StatusInternalServerError:
		return true
	}
	return false
}

func (c *Client) post(ctx context.Context, client *resty.Client, path string, body, result any) error {
	resp, err := client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err != nil {
		return fmt.Errorf("paymob %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("paymob %s failed with status %d: %s", path, resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

// Authenticate exchanges the API key for a short-lived auth token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	var out tokenResponse
	if err := c.post(ctx, c.http, "/api/auth/tokens", map[string]string{"api_key": c.cfg.APIKey}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("paymob auth: token not found in response")
	}
	return out.Token, nil
}

// RegisterOrder creates the gateway-side order and returns its id. Paymob rejects a repeated
// merchant_order_id, so the request is never retried.
func (c *Client) RegisterOrder(ctx context.Context, authToken string, req CheckoutRequest) (string, error) {
	body := map[string]any{
		"auth_token":        authToken,
		"delivery_needed":   "false",
		"amount_cents":      strconv.FormatInt(req.AmountCents, 10),
		"currency":          req.Currency,
		"merchant_order_id": req.MerchantOrderID,
		"items":             []any{},
	}
	var out orderResponse
	if err := c.post(ctx, c.once, "/api/ecommerce/orders", body, &out); err != nil {
		return "", err
	}
	if out.ID == 0 {
		return "", fmt.Errorf("paymob order: id not found in response")
	}
	return strconv.FormatInt(out.ID, 10), nil
}

// PaymentKey issues the token the hosted iframe is opened with.
func (c *Client) PaymentKey(ctx context.Context, authToken, paymobOrderID string, req CheckoutRequest) (string, error) {
	body := map[string]any{
		"auth_token":     authToken,
		"amount_cents":   strconv.FormatInt(req.AmountCents, 10),
		"expiration":     int(c.cfg.KeyExpiry.Seconds()),
		"order_id":       paymobOrderID,
		"currency":       req.Currency,
		"integration_id": c.cfg.IntegrationID,
		"billing_data":   billingData(req.Billing),
	}
	var out tokenResponse
	if err := c.post(ctx, c.http, "/api/acceptance/payment_keys", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("paymob payment key: token not found in response")
	}
	return out.Token, nil
}

func (c *Client) IframeURL(paymentToken string) string {
	return fmt.Sprintf("%s/api/acceptance/iframes/%s?payment_token=%s", c.cfg.BaseURL, c.cfg.IframeID, url.QueryEscape(paymentToken))
}

// Checkout runs the three-step Paymob flow and returns the hosted payment page.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (Checkout, error) {
	if req.Currency == "" {
		req.Currency = "EGP"
	}
	authToken, err := c.Authenticate(ctx)
	if err != nil {
		return Checkout{}, err
	}
	paymobOrderID, err := c.RegisterOrder(ctx, authToken, req)
	if err != nil {
		return Checkout{}, err
	}
	paymentToken, err := c.PaymentKey(ctx, authToken, paymobOrderID, req)
	if err != nil {
		return Checkout{}, err
	}
	return Checkout{
		PaymobOrderID: paymobOrderID,
		PaymentToken:  paymentToken,
		IframeURL:     c.IframeURL(paymentToken),
	}, nil
}

func billingData(b Billing) map[string]string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "NA"
		}
		return s
	}
	return map[string]string{
		"first_name":      orNA(b.FirstName),
		"last_name":       orNA(b.LastName),
		"email":           orNA(b.Email),
		"phone_number":    orNA(b.Phone),
		"street":          orNA(b.Street),
		"city":            orNA(b.City),
		"country":         "EG",
		"apartment":       "NA",
		"floor":           "NA",
		"building":        "NA",
		"shipping_method": "NA",
		"postal_code":     "NA",
		"state":           "NA",
	}
}
