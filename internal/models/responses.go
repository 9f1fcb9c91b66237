package models

// Raw carries the decoded body and status of a response. Responses produced
// while tracking is disabled have an empty Data map and a zero StatusCode.
type Raw struct {
	StatusCode int            `json:"-"`
	Data       map[string]any `json:"-"`
}

func (r *Raw) SetRaw(raw Raw) {
	*r = raw
}

type EventResponse struct {
	VisitID   string `json:"visitId"`
	VisitorID string `json:"visitorId"`
	Raw
}

type VisitResponse struct {
	ID        string `json:"id"`
	VisitorID string `json:"visitorId"`
	Raw
}

type HealthResponse struct {
	Status string `json:"status"`
	Raw
}
