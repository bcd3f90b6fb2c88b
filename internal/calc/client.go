// Package calc talks to the remote calculation service that turns
// experiment parameters into an intensity pattern.
package calc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lux-resonans/internal/version"
	"lux-resonans/pkg/models"
)

// PatternPath is the service endpoint.
const PatternPath = "/calculate_pattern"

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// ErrMalformedResponse is returned when a success body cannot be used.
var ErrMalformedResponse = errors.New("malformed response from calculation service")

// ServiceError is a non-success HTTP status from the service. Message is
// the body's error field, or a generic status message when it has none.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Client posts simulation requests to the calculation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each Calculate call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    15 * time.Second,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate sends req and returns the decoded pattern.
func (c *Client) Calculate(ctx context.Context, req models.SimulationRequest) (*models.SimulationResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PatternPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("User-Agent", version.UserAgent())

	logger := c.logger.With().
		Str("request_id", requestID).
		Str("simulation_type", string(req.SimulationType)).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn().Err(err).Dur("latency", time.Since(start)).Msg("calculation request failed")
		return nil, fmt.Errorf("calculation service unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("latency", time.Since(start)).
		Msg("calculation response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceError(resp.StatusCode, raw)
	}

	var result models.SimulationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &result, nil
}

// serviceError prefers the body's error message over the generic one.
func serviceError(status int, raw []byte) *ServiceError {
	var eb models.ErrorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error != "" {
		return &ServiceError{Status: status, Message: eb.Error}
	}
	return &ServiceError{Status: status, Message: fmt.Sprintf("HTTP error! status: %d", status)}
}
