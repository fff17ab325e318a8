// Package storage talks to the remote dish storage service.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/dishform/internal/dish"
)

// DefaultEndpoint is the dish storage service the form posts to unless
// configured otherwise.
const DefaultEndpoint = "https://frosty-wood-6558.getsandbox.com:443/dishes"

// Config holds the client settings.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Response is a successful, decoded reply from the service.
type Response struct {
	StatusCode int
	Body       json.RawMessage
	LatencyMs  int64
}

// Client submits dishes to the storage service.
type Client interface {
	// Submit POSTs payload as JSON and returns the decoded reply.
	// Errors wrap ErrUnexpectedStatus, ErrInvalidResponse, ErrUnavailable
	// or ErrTimeout.
	Submit(ctx context.Context, payload dish.Payload) (*Response, error)
}

// StatusError carries the status code of a non-success reply.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// httpClient implements Client over net/http.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for cfg.Endpoint.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) Submit(ctx context.Context, payload dish.Payload) (*Response, error) {
	start := time.Now()
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, status, err := c.doRequest(ctx, payload)
	latency := time.Since(start).Milliseconds()

	if err != nil && ctx.Err() != nil && status == 0 {
		err = ErrTimeout
	} else if err != nil && isConnectionError(err) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.observer.OnCallComplete(CallEvent{
		Endpoint:   c.cfg.Endpoint,
		StatusCode: status,
		LatencyMs:  latency,
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
	if err != nil {
		return nil, err
	}

	resp.LatencyMs = latency
	return resp, nil
}

func (c *httpClient) doRequest(ctx context.Context, payload dish.Payload) (*Response, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling dish: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, httpResp.StatusCode, &StatusError{Code: httpResp.StatusCode}
	}

	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       json.RawMessage(respBody),
	}, httpResp.StatusCode, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnexpectedStatus):
		return "STATUS"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
