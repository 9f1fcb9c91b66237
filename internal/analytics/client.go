package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vincentbai/usageanalytics/internal/config"
	"github.com/vincentbai/usageanalytics/internal/donottrack"
	"github.com/vincentbai/usageanalytics/internal/logger"
	"github.com/vincentbai/usageanalytics/internal/models"
	"github.com/vincentbai/usageanalytics/internal/storage"
	"github.com/vincentbai/usageanalytics/internal/transport"
)

const (
	visitPath  = "visit"
	healthPath = "monitoring/health"
)

// Client is the only holder of the tracking Strategy. Sends capture the
// strategy at call start, so an Enable or Disable only affects later calls.
type Client struct {
	transport transport.Transport
	storage   storage.Storage

	mu       sync.RWMutex
	strategy Strategy
}

type Option func(*Client)

// WithTransport replaces the HTTP transport built from the configuration.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New builds a Client. doNotTrack is evaluated here and never again; a nil
// oracle never opts out.
func New(cfg *config.AnalyticsConfig, store storage.Storage, doNotTrack donottrack.Oracle, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, config.NewConfigurationError("", "options are required")
	}
	if store == nil {
		return nil, config.NewConfigurationError("storage", "a storage provider is required")
	}
	endpoint, err := config.ResolveEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	c := &Client{storage: store}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = transport.NewHTTPTransport(transport.Options{
			Endpoint: endpoint,
			Token:    cfg.Token,
			Timeout:  cfg.Timeout,
		})
	}

	optedOut := doNotTrack != nil && doNotTrack()
	if !cfg.AnalyticsEnabled() || optedOut {
		c.strategy = noopStrategy{}
	} else {
		c.strategy = newActiveStrategy(c.transport, c.storage)
	}

	logger.GetLogger().WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"state":      c.strategy.State().String(),
		"doNotTrack": optedOut,
	}).Debug("analytics client created")

	return c, nil
}

// Enable swaps in a fresh active strategy. The visitor identity already in
// storage is kept.
func (c *Client) Enable() {
	c.swap(newActiveStrategy(c.transport, c.storage))
}

func (c *Client) Disable() {
	c.swap(noopStrategy{})
}

func (c *Client) swap(next Strategy) {
	c.mu.Lock()
	c.strategy = next
	c.mu.Unlock()
	logger.GetLogger().WithField("state", next.State().String()).Debug("analytics tracking state changed")
}

func (c *Client) current() Strategy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strategy
}

func (c *Client) State() TrackingState {
	return c.current().State()
}

func (c *Client) IsEnabled() bool {
	return c.State() == Active
}

// SendEvent posts body under eventType and decodes the reply.
func (c *Client) SendEvent(ctx context.Context, eventType string, body models.EventRequest) (*models.EventResponse, error) {
	strategy := c.current()
	if body == nil {
		body = models.EventRequest{}
	}
	resp, err := strategy.Send(ctx, eventType, body)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.EventResponse](resp)
}

func (c *Client) SendSearchEvent(ctx context.Context, request *models.SearchEventRequest) (*models.EventResponse, error) {
	return c.sendTyped(ctx, models.SearchEventType, request)
}

func (c *Client) SendClickEvent(ctx context.Context, request *models.ClickEventRequest) (*models.EventResponse, error) {
	return c.sendTyped(ctx, models.ClickEventType, request)
}

func (c *Client) SendCustomEvent(ctx context.Context, request *models.CustomEventRequest) (*models.EventResponse, error) {
	return c.sendTyped(ctx, models.CustomEventType, request)
}

// SendViewEvent drops an empty referrer: "" means absent.
func (c *Client) SendViewEvent(ctx context.Context, request *models.ViewEventRequest) (*models.EventResponse, error) {
	body, err := models.ToEventRequest(request)
	if err != nil {
		return nil, err
	}
	return c.SendViewEventBody(ctx, body)
}

// SendViewEventBody sends an already mapped view event. Only an empty
// referrer is removed; every other field goes out as given.
func (c *Client) SendViewEventBody(ctx context.Context, body models.EventRequest) (*models.EventResponse, error) {
	body = body.Clone()
	if referrer, ok := body["referrer"]; ok && referrer == "" {
		delete(body, "referrer")
	}
	return c.SendEvent(ctx, models.ViewEventType, body)
}

func (c *Client) GetVisit(ctx context.Context) (*models.VisitResponse, error) {
	resp, err := c.current().Fetch(ctx, visitPath)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.VisitResponse](resp)
}

func (c *Client) GetHealth(ctx context.Context) (*models.HealthResponse, error) {
	resp, err := c.current().Fetch(ctx, healthPath)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.HealthResponse](resp)
}

func (c *Client) sendTyped(ctx context.Context, eventType string, request any) (*models.EventResponse, error) {
	body, err := models.ToEventRequest(request)
	if err != nil {
		return nil, err
	}
	return c.SendEvent(ctx, eventType, body)
}

// decodeResponse fills the typed response and its raw map from one body. An
// empty or null body decodes to an empty response.
func decodeResponse[T any, PT interface {
	*T
	SetRaw(models.Raw)
}](resp *transport.Response) (*T, error) {
	out := PT(new(T))
	data := map[string]any{}

	payload := bytes.TrimSpace(resp.Body)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if data == nil {
			data = map[string]any{}
		}
	}
	out.SetRaw(models.Raw{StatusCode: resp.StatusCode, Data: data})
	return (*T)(out), nil
}
