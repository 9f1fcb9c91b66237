package models

// FacetStateRecord describes one facet value as displayed in the search UI.
type FacetStateRecord struct {
	Field         string `json:"field"`
	ID            string `json:"id"`
	Title         string `json:"title,omitempty"`
	FacetType     string `json:"facetType"` // specific|dateRange|numericalRange|hierarchical
	State         string `json:"state"`     // idle|selected|excluded
	Value         string `json:"value,omitempty"`
	DisplayValue  string `json:"displayValue,omitempty"`
	ValuePosition int    `json:"valuePosition"`
	FacetPosition int    `json:"facetPosition"`
}

// SearchEventPayload is the query-level part of a search event, supplied by
// the host application.
type SearchEventPayload struct {
	QueryText        string `json:"queryText"`
	ResponseTime     int    `json:"responseTime"`
	NumberOfResults  int    `json:"numberOfResults,omitempty"`
	Results          []any  `json:"results,omitempty"`
	QueryPipeline    string `json:"queryPipeline,omitempty"`
	AdvancedQuery    string `json:"advancedQuery,omitempty"`
	ContextualQuery  string `json:"contextualQuery,omitempty"`
	SearchQueryUID   string `json:"searchQueryUid,omitempty"`
	ActionType       string `json:"actionType,omitempty"`
	ContextWebsite   string `json:"contextWebsite,omitempty"`
	IsFirstQueryForm bool   `json:"isFirstQueryForm,omitempty"`
}

// EventBase holds the fields shared by every event kind.
type EventBase struct {
	Language            string         `json:"language,omitempty"`
	UserAgent           string         `json:"userAgent,omitempty"`
	CustomData          map[string]any `json:"customData,omitempty"`
	Anonymous           bool           `json:"anonymous"`
	Username            string         `json:"username,omitempty"`
	UserDisplayName     string         `json:"userDisplayName,omitempty"`
	SplitTestRunName    string         `json:"splitTestRunName,omitempty"`
	SplitTestRunVersion string         `json:"splitTestRunVersion,omitempty"`
	OriginContext       string         `json:"originContext,omitempty"`
	OriginLevel1        string         `json:"originLevel1,omitempty"`
	OriginLevel2        string         `json:"originLevel2,omitempty"`
	OriginLevel3        string         `json:"originLevel3,omitempty"`
}

type SearchEventRequest struct {
	EventBase
	SearchEventPayload
	ActionCause string             `json:"actionCause"`
	FacetState  []FacetStateRecord `json:"facetState,omitempty"`
}

type ClickEventRequest struct {
	EventBase
	DocumentURI      string `json:"documentUri"`
	DocumentURIHash  string `json:"documentUriHash"`
	CollectionName   string `json:"collectionName,omitempty"`
	SourceName       string `json:"sourceName"`
	DocumentPosition int    `json:"documentPosition"`
	ActionCause      string `json:"actionCause"`
	SearchQueryUID   string `json:"searchQueryUid"`
	QueryPipeline    string `json:"queryPipeline,omitempty"`
	RankingModifier  string `json:"rankingModifier,omitempty"`
	DocumentTitle    string `json:"documentTitle,omitempty"`
	DocumentURL      string `json:"documentUrl,omitempty"`
	DocumentAuthor   string `json:"documentAuthor,omitempty"`
}

type CustomEventRequest struct {
	EventBase
	EventType          string `json:"eventType"`
	EventValue         string `json:"eventValue"`
	LastSearchQueryUID string `json:"lastSearchQueryUid,omitempty"`
}

type ViewEventRequest struct {
	EventBase
	Location       string `json:"location"`
	// Referrer is sent only when non-empty.
	Referrer       string `json:"referrer"`
	Title          string `json:"title,omitempty"`
	ContentIDKey   string `json:"contentIdKey"`
	ContentIDValue string `json:"contentIdValue"`
	ContentType    string `json:"contentType,omitempty"`
}

// PartialDocumentInformation describes the opened document of a click event.
type PartialDocumentInformation struct {
	DocumentAuthor   string `json:"documentAuthor,omitempty"`
	DocumentPosition int    `json:"documentPosition"`
	DocumentTitle    string `json:"documentTitle,omitempty"`
	DocumentURL      string `json:"documentUrl,omitempty"`
	DocumentURIHash  string `json:"documentUriHash"`
	DocumentURI      string `json:"documentUri"`
	SourceName       string `json:"sourceName"`
	CollectionName   string `json:"collectionName,omitempty"`
	RankingModifier  string `json:"rankingModifier,omitempty"`
	QueryPipeline    string `json:"queryPipeline,omitempty"`
}

// DocumentIdentifier names the field that uniquely identifies a document.
type DocumentIdentifier struct {
	ContentIDKey   string `json:"contentIDKey"`
	ContentIDValue string `json:"contentIDValue"`
}
