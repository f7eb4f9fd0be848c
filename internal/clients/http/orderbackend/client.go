package orderbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxErrorBody = 4 << 10

var ErrMissingToken = errors.New("order backend bearer token is required")

// APIError describes a reply the backend sent but that was not a success.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("order backend error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("order backend error (status %d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the credential was refused.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Temporary reports whether repeating the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client talks to the storefront order backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithLogger sets where skipped list rows are reported. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient instantiates the client. A nil httpClient gets a traced client with a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("order backend base URL is required")
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}
	c := &Client{baseURL: baseURL, httpClient: httpClient, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewHTTPClient builds an HTTP client whose transport emits client spans.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// ListOrders returns orders in the order the backend stores them (oldest first).
// Rows that do not decode, or carry no id, are logged and left out.
func (c *Client) ListOrders(ctx context.Context, token string) ([]OrderPayload, error) {
	var resp listOrdersResponse
	if err := c.post(ctx, token, "/api/order/list", struct{}{}, &resp); err != nil {
		return nil, err
	}
	orders := make([]OrderPayload, 0, len(resp.Orders))
	for i, raw := range resp.Orders {
		var order OrderPayload
		err := json.Unmarshal(raw, &order)
		if err == nil && strings.TrimSpace(order.ID) == "" {
			err = errors.New("missing _id")
		}
		if err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "skipping malformed order from backend",
				slog.Int("index", i),
				slog.String("order.id", order.ID),
				slog.String("error", err.Error()))
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus asks the backend to move an order to a new status.
func (c *Client) UpdateStatus(ctx context.Context, token, orderID, status string) error {
	var resp envelope
	return c.post(ctx, token, "/api/order/status", StatusRequest{OrderID: orderID, Status: status}, &resp)
}

// UpdatePayment sets the payment flag of an order.
func (c *Client) UpdatePayment(ctx context.Context, token, orderID string, paid bool) error {
	var resp envelope
	return c.post(ctx, token, "/api/order/paymentstatus", PaymentRequest{OrderID: orderID, Payment: paid}, &resp)
}

// SellerProfile fetches the shop identity. A missing profile yields an empty payload.
func (c *Client) SellerProfile(ctx context.Context, token string) (*SellerProfilePayload, error) {
	var resp sellerProfileResponse
	if err := c.do(ctx, token, http.MethodGet, "/api/seller/profile", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Profile == nil {
		return &SellerProfilePayload{}, nil
	}
	return resp.Profile, nil
}

type successReporter interface {
	succeeded() (bool, string)
}

func (e envelope) succeeded() (bool, string) { return e.Success, e.Message }

func (c *Client) post(ctx context.Context, token, path string, body any, out successReporter) error {
	return c.do(ctx, token, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, token, method, path string, body any, out successReporter) error {
	if c == nil || c.httpClient == nil {
		return errors.New("order backend client not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call order backend %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if ok, msg := out.succeeded(); !ok {
		return &APIError{StatusCode: res.StatusCode, Message: msg}
	}
	return nil
}

func decodeAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var body envelope
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = strings.TrimSpace(body.Message)
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = res.Status
	}
	return &APIError{StatusCode: res.StatusCode, Message: msg}
}
