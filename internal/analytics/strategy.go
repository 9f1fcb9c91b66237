package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vincentbai/usageanalytics/internal/logger"
	"github.com/vincentbai/usageanalytics/internal/models"
	"github.com/vincentbai/usageanalytics/internal/storage"
	"github.com/vincentbai/usageanalytics/internal/transport"
)

// TrackingState tells whether sends reach the network.
type TrackingState int

const (
	Active TrackingState = iota
	Disabled
)

func (s TrackingState) String() string {
	switch s {
	case Active:
		return "active"
	case Disabled:
		return "disabled"
	default:
		return fmt.Sprintf("TrackingState(%d)", int(s))
	}
}

// Strategy is the behaviour behind a Client. It is replaced as a whole on
// Enable and Disable, never mutated.
type Strategy interface {
	State() TrackingState
	Send(ctx context.Context, eventType string, body models.EventRequest) (*transport.Response, error)
	Fetch(ctx context.Context, path string) (*transport.Response, error)
}

var (
	_ Strategy = &activeStrategy{}
	_ Strategy = noopStrategy{}
)

type activeStrategy struct {
	transport transport.Transport
	storage   storage.Storage
}

func newActiveStrategy(t transport.Transport, s storage.Storage) *activeStrategy {
	return &activeStrategy{transport: t, storage: s}
}

func (a *activeStrategy) State() TrackingState { return Active }

func (a *activeStrategy) Send(ctx context.Context, eventType string, body models.EventRequest) (*transport.Response, error) {
	visitorID, err := a.visitorID()
	if err != nil {
		return nil, err
	}

	outgoing := body.Clone()
	outgoing[models.VisitorIDField] = visitorID

	return a.transport.Send(ctx, eventType, outgoing)
}

func (a *activeStrategy) Fetch(ctx context.Context, path string) (*transport.Response, error) {
	return a.transport.Fetch(ctx, path)
}

// visitorID reads the persisted identity, creating it on first use. The
// read-generate-write sequence is not atomic: two concurrent first sends may
// both generate an identity and the last write wins.
func (a *activeStrategy) visitorID() (string, error) {
	visitorID, err := a.storage.GetItem(storage.VisitorIDKey)
	if err != nil {
		return "", fmt.Errorf("failed to read visitor id: %w", err)
	}
	if visitorID != "" {
		return visitorID, nil
	}

	visitorID = uuid.NewString()
	if err := a.storage.SetItem(storage.VisitorIDKey, visitorID); err != nil {
		return "", fmt.Errorf("failed to persist visitor id: %w", err)
	}
	logger.GetLogger().WithField("visitorId", visitorID).Debug("generated visitor id")
	return visitorID, nil
}

// noopStrategy accepts every event without network or storage access.
type noopStrategy struct{}

func (noopStrategy) State() TrackingState { return Disabled }

func (noopStrategy) Send(context.Context, string, models.EventRequest) (*transport.Response, error) {
	return emptyResponse(), nil
}

func (noopStrategy) Fetch(context.Context, string) (*transport.Response, error) {
	return emptyResponse(), nil
}

func emptyResponse() *transport.Response {
	return &transport.Response{Body: []byte("{}")}
}
