package compliance

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUnexpectedBody is returned when the response is neither a series list
// nor a known envelope around one.
var ErrUnexpectedBody = errors.New("unexpected response body")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// ClientConfig holds connection details for the trend endpoint.
type ClientConfig struct {
	URL                string
	Method             string
	Token              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Client is the HTTP implementation of TrendServiceAPI.
type Client struct {
	url        string
	method     string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a trend client for the configured endpoint and method.
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in per server profile
	}
	method := cfg.Method
	if method == "" {
		method = http.MethodPost
	}
	return &Client{
		url:    cfg.URL,
		method: method,
		token:  cfg.Token,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		log: log.With().Str("component", "compliance_client").Logger(),
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Fetch issues one trend request and decodes the series list.
// The request is aborted when ctx is cancelled.
func (c *Client) Fetch(ctx context.Context, req TrendRequest) ([]Series, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	requestID := httpReq.Header.Get("X-Request-ID")

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", c.method).
		Str("asset_group", req.AssetGroup).
		Str("from", req.From).
		Msg("fetching compliance trend")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Msg("compliance trend request failed")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	series, err := decodeSeries(body)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("request_id", requestID).
		Int("series", len(series)).
		Msg("compliance trend fetched")
	return series, nil
}

func (c *Client) newRequest(ctx context.Context, req TrendRequest) (*http.Request, error) {
	var httpReq *http.Request
	var err error

	switch c.method {
	case http.MethodGet:
		u, perr := url.Parse(c.url)
		if perr != nil {
			return nil, fmt.Errorf("invalid trend url: %w", perr)
		}
		q := u.Query()
		q.Set("ag", req.AssetGroup)
		q.Set("from", req.From)
		for k, v := range req.Filters {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	default:
		body, merr := json.Marshal(req)
		if merr != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", merr)
		}
		httpReq, err = http.NewRequestWithContext(ctx, c.method, c.url, bytes.NewReader(body))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	return httpReq, nil
}

// decodeSeries accepts a bare series array, {"data": [...]} or
// {"data": {"response": [...]}}.
func decodeSeries(body []byte) ([]Series, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	if body[0] == '[' {
		var series []Series
		if err := json.Unmarshal(body, &series); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return series, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] == '[' {
		var series []Series
		if err := json.Unmarshal(data, &series); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response data: %w", err)
		}
		return series, nil
	}

	var inner struct {
		Response []Series `json:"response"`
	}
	if err := json.Unmarshal(data, &inner); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	if inner.Response == nil {
		return nil, ErrUnexpectedBody
	}
	return inner.Response, nil
}
