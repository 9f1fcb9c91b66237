package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Event types accepted by the collection service.
const (
	SearchEventType = "search"
	ClickEventType  = "click"
	CustomEventType = "custom"
	ViewEventType   = "view"
)

// VisitorIDField is the body field carrying the visitor identity.
const VisitorIDField = "clientId"

// EventRequest is one outgoing event body, keyed by wire field name.
type EventRequest map[string]any

// Clone returns a shallow copy so attaching fields never touches the caller's map.
func (r EventRequest) Clone() EventRequest {
	clone := make(EventRequest, len(r)+1)
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// ToEventRequest converts a typed request into its wire mapping.
func ToEventRequest(request any) (EventRequest, error) {
	if existing, ok := request.(EventRequest); ok {
		return existing.Clone(), nil
	}
	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event request: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	body := EventRequest{}
	if err := decoder.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to convert event request: %w", err)
	}
	return body, nil
}

// MergeCustomData overlays meta on top of base. Keys in meta win.
func MergeCustomData(base, meta map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(meta))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range meta {
		merged[k] = v
	}
	return merged
}

// CollectedEvent is an event as stored by the local collection service.
type CollectedEvent struct {
	TSUTC     int64          `json:"ts_utc"`
	TSISO     string         `json:"ts_iso"`
	Type      string         `json:"type"` // search|click|custom|view
	VisitID   string         `json:"visitId"`
	VisitorID string         `json:"visitorId"`
	Data      map[string]any `json:"data"`
}
