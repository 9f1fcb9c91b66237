package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/vincentbai/usageanalytics/internal/logger"
	"github.com/vincentbai/usageanalytics/internal/models"
)

const maxErrorBody = 512

// Transport performs the network side of event dispatch.
type Transport interface {
	// Send POSTs body to {endpoint}/analytics/{eventType}.
	Send(ctx context.Context, eventType string, body models.EventRequest) (*Response, error)
	// Fetch GETs {endpoint}/analytics/{path}.
	Fetch(ctx context.Context, path string) (*Response, error)
}

// Response is a successful (2xx) reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Options struct {
	// Endpoint is the resolved base URL, without trailing slash.
	Endpoint string
	Token    string
	// Timeout bounds a whole request. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

var (
	_ Transport                   = &HTTPTransport{}
	_ retryablehttp.LeveledLogger = &logger.LeveledLogrus{}
)

type HTTPTransport struct {
	endpoint string
	token    string
	client   *retryablehttp.Client
}

// NewHTTPTransport builds a transport that sends every request exactly once.
func NewHTTPTransport(opts Options) *HTTPTransport {
	client := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		httpClient := *opts.HTTPClient
		client.HTTPClient = &httpClient
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	client.RetryMax = 0
	client.CheckRetry = noRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = logger.NewLeveledLogrus(logger.GetLogger(), "transport")

	return &HTTPTransport{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		token:    opts.Token,
		client:   client,
	}
}

func noRetryPolicy(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, nil
}

func (t *HTTPTransport) Send(ctx context.Context, eventType string, body models.EventRequest) (*Response, error) {
	url := t.url(eventType)
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &TransportError{Method: http.MethodPost, URL: url, Err: fmt.Errorf("failed to marshal body: %w", err)}
	}

	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, &TransportError{Method: http.MethodPost, URL: url, Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	t.authorize(request)

	return t.do(request)
}

func (t *HTTPTransport) Fetch(ctx context.Context, path string) (*Response, error) {
	url := t.url(path)
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: url, Err: err}
	}
	t.authorize(request)

	return t.do(request)
}

func (t *HTTPTransport) url(path string) string {
	return t.endpoint + "/analytics/" + strings.TrimLeft(path, "/")
}

func (t *HTTPTransport) authorize(request *retryablehttp.Request) {
	if t.token != "" {
		request.Header.Set("Authorization", "Bearer "+t.token)
	}
}

func (t *HTTPTransport) do(request *retryablehttp.Request) (*Response, error) {
	method, url := request.Method, request.URL.String()

	resp, err := t.client.Do(request)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: truncate(body, maxErrorBody)}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
