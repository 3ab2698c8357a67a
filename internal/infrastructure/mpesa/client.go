// Package mpesa implements the Daraja STK push gateway adapter: outbound
// payment initiation and transaction-status queries. Failures are returned as
// explicit errors; no payment state lives here.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dukapoint/cloudsales-api/internal/config"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"
)

// STKPushResponse mirrors the gateway's push acknowledgement. ResponseCode "0"
// means the push was accepted; the payment outcome arrives later via callback.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Accepted reports whether the gateway acknowledged the push request
func (r *STKPushResponse) Accepted() bool {
	return r.ResponseCode == "0"
}

// StatusResponse mirrors the gateway's transaction-status query result
type StatusResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

// Succeeded reports whether the provider settled the transaction successfully
func (r *StatusResponse) Succeeded() bool {
	return r.ResultCode == "0"
}

// Client talks to the Daraja API with bounded timeouts
type Client struct {
	cfg        config.MpesaConfig
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client. cfg.BaseURL overrides the
// environment-derived endpoint, which tests use to point at a local server.
func NewClient(cfg config.MpesaConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Environment == "production" {
			baseURL = productionBaseURL
		} else {
			baseURL = sandboxBaseURL
		}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NormalizePhone converts local formats to the international 254 prefix
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "0") {
		phone = "254" + phone[1:]
	}
	return phone
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.cfg.ConsumerKey == "" || c.cfg.ConsumerSecret == "" {
		return "", fmt.Errorf("mpesa credentials not configured")
	}

	url := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mpesa token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mpesa token request: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("mpesa token decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("mpesa token response missing access_token")
	}
	return body.AccessToken, nil
}

func (c *Client) timestamp() string {
	return time.Now().Format("20060102150405")
}

// password is base64(shortcode + passkey + timestamp), per the Daraja spec
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.Shortcode + c.cfg.Passkey + timestamp))
}

// STKPush initiates a payment push to the customer's phone. amount is in whole
// shillings; reference is the sale reference shown to the customer.
func (c *Client) STKPush(ctx context.Context, phone string, amount int64, reference string) (*STKPushResponse, error) {
	if c.cfg.Shortcode == "" || c.cfg.Passkey == "" || c.cfg.CallbackURL == "" {
		return nil, fmt.Errorf("mpesa configuration incomplete")
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	phone = NormalizePhone(phone)
	ts := c.timestamp()

	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.Shortcode,
		"Password":          c.password(ts),
		"Timestamp":         ts,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount,
		"PartyA":            phone,
		"PartyB":            c.cfg.Shortcode,
		"PhoneNumber":       phone,
		"CallBackURL":       c.cfg.CallbackURL,
		"AccountReference":  reference,
		"TransactionDesc":   "Payment for " + reference,
	}

	var out STKPushResponse
	if err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryStatus asks the gateway whether an STK push has settled
func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := c.timestamp()
	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.Shortcode,
		"Password":          c.password(ts),
		"Timestamp":         ts,
		"CheckoutRequestID": checkoutRequestID,
	}

	var out StatusResponse
	if err := c.post(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mpesa request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mpesa request %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mpesa response decode: %w", err)
	}
	return nil
}
