package insight

import "github.com/vincentbai/usageanalytics/internal/models"

// Provider supplies the host search application's context. Every accessor is
// called again for each logged action.
type Provider interface {
	BaseMetadata() map[string]any
	SearchEventRequestPayload() models.SearchEventPayload
	SearchUID() string
	Pipeline() string
	OriginContext() string
	OriginLevel1() string
	OriginLevel2() string
	OriginLevel3() string
	Language() string
	FacetState() []models.FacetStateRecord
	IsAnonymous() bool
}
