package mailerlite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the production MailerLite API root.
	DefaultBaseURL = "https://connect.mailerlite.com/api"
	// DefaultTimeout applies when no timeout option is given.
	DefaultTimeout = 30 * time.Second

	userAgent = "mailkit/1.0"
)

// Client represents a MailerLite API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *requestMetrics
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the client.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new MailerLite client
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    logger,
		userAgent: userAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("mailerlite base URL is required")
	}
	client.baseURL = strings.TrimRight(client.baseURL, "/")

	return client, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the HTTP timeout applied to every request.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// doRequest performs an authenticated request and returns the raw body.
// Non-2xx responses are returned as *APIError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, body any) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(method, endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.observe(method, endpoint, resp.StatusCode, time.Since(start))

	c.logger.Debug().
		Str("method", method).
		Str("path", endpoint).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("MailerLite API request")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Body:       string(body),
	}

	var payload struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.Errors = payload.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}

// record performs a request and decodes a single-object response.
func (c *Client) record(ctx context.Context, method, endpoint string, params url.Values, body any) (Record, error) {
	raw, err := c.doRequest(ctx, method, endpoint, params, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Record{}, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return Unwrap(decoded), nil
}

// page performs a GET against a list endpoint.
func (c *Client) page(ctx context.Context, endpoint string, filters Filters) (*Page[Record], error) {
	raw, err := c.doRequest(ctx, http.MethodGet, endpoint, filters.Values(), nil)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Data  []map[string]any `json:"data"`
		Meta  map[string]any   `json:"meta"`
		Links map[string]any   `json:"links"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	page := &Page[Record]{
		Data:  make([]Record, 0, len(decoded.Data)),
		Meta:  decoded.Meta,
		Links: decoded.Links,
	}
	for _, item := range decoded.Data {
		page.Data = append(page.Data, Record(item))
	}

	return page, nil
}

// Ping verifies the credential by fetching a single subscriber.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/subscribers", url.Values{"limit": {"1"}}, nil)
	return err
}
