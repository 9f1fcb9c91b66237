package insight

import (
	"context"

	"github.com/vincentbai/usageanalytics/internal/analytics"
	"github.com/vincentbai/usageanalytics/internal/config"
	"github.com/vincentbai/usageanalytics/internal/donottrack"
	"github.com/vincentbai/usageanalytics/internal/models"
	"github.com/vincentbai/usageanalytics/internal/searchpage"
	"github.com/vincentbai/usageanalytics/internal/storage"
)

// Client turns named insight-panel actions into search, custom and click
// events. Provider values are forwarded as they are; validation belongs to
// the collection service.
type Client struct {
	events   *analytics.Client
	provider Provider
}

func NewClient(events *analytics.Client, provider Provider) (*Client, error) {
	if events == nil {
		return nil, config.NewConfigurationError("analytics", "an analytics client is required")
	}
	if provider == nil {
		return nil, config.NewConfigurationError("provider", "a context provider is required")
	}
	return &Client{events: events, provider: provider}, nil
}

// New builds the underlying analytics client and the composer in one step.
func New(cfg *config.AnalyticsConfig, provider Provider, store storage.Storage, doNotTrack donottrack.Oracle, opts ...analytics.Option) (*Client, error) {
	events, err := analytics.New(cfg, store, doNotTrack, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(events, provider)
}

func (c *Client) Analytics() *analytics.Client {
	return c.events
}

func (c *Client) Enable() {
	c.events.Enable()
}

func (c *Client) Disable() {
	c.events.Disable()
}

func (c *Client) LogInterfaceLoad(ctx context.Context) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.InterfaceLoad, nil)
}

type InterfaceChangeMetadata struct {
	InterfaceChangeTo string
}

func (c *Client) LogInterfaceChange(ctx context.Context, meta InterfaceChangeMetadata) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.InterfaceChange, map[string]any{
		"interfaceChangeTo": meta.InterfaceChangeTo,
	})
}

func (c *Client) LogSearchboxSubmit(ctx context.Context) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.SearchboxSubmit, nil)
}

func (c *Client) LogBreadcrumbResetAll(ctx context.Context) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.BreadcrumbResetAll, nil)
}

func (c *Client) LogResultsSort(ctx context.Context, sortCriteria string) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.ResultsSort, map[string]any{
		"resultsSortBy": sortCriteria,
	})
}

func (c *Client) LogFetchMoreResults(ctx context.Context) (*models.EventResponse, error) {
	return c.logCustomEvent(ctx, searchpage.PagerScrolling, map[string]any{
		"type": "getMoreResults",
	})
}

func (c *Client) LogPagerNumber(ctx context.Context, pagerNumber int) (*models.EventResponse, error) {
	return c.logCustomEvent(ctx, searchpage.PagerNumber, map[string]any{
		"pagerNumber": pagerNumber,
	})
}

func (c *Client) LogPagerNext(ctx context.Context, pagerNumber int) (*models.EventResponse, error) {
	return c.logCustomEvent(ctx, searchpage.PagerNext, map[string]any{
		"pagerNumber": pagerNumber,
	})
}

func (c *Client) LogPagerPrevious(ctx context.Context, pagerNumber int) (*models.EventResponse, error) {
	return c.logCustomEvent(ctx, searchpage.PagerPrevious, map[string]any{
		"pagerNumber": pagerNumber,
	})
}

// FacetMetadata identifies the facet acted on.
type FacetMetadata struct {
	FacetField string
	FacetID    string
	FacetTitle string
}

func (m FacetMetadata) toMap() map[string]any {
	return map[string]any{
		"facetField": m.FacetField,
		"facetId":    m.FacetID,
		"facetTitle": m.FacetTitle,
	}
}

// FacetValueMetadata adds the value selected or deselected. FacetValue is
// always sent, empty or not.
type FacetValueMetadata struct {
	FacetMetadata
	FacetValue string
}

func (m FacetValueMetadata) toMap() map[string]any {
	meta := m.FacetMetadata.toMap()
	meta["facetValue"] = m.FacetValue
	return meta
}

func (c *Client) LogFacetSelect(ctx context.Context, meta FacetValueMetadata) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.FacetSelect, meta.toMap())
}

func (c *Client) LogFacetDeselect(ctx context.Context, meta FacetValueMetadata) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.FacetDeselect, meta.toMap())
}

type FacetSortMetadata struct {
	FacetMetadata
	Criteria string
}

func (c *Client) LogFacetUpdateSort(ctx context.Context, meta FacetSortMetadata) (*models.EventResponse, error) {
	fields := meta.toMap()
	fields["criteria"] = meta.Criteria
	return c.logSearchEvent(ctx, searchpage.FacetUpdateSort, fields)
}

func (c *Client) LogFacetClearAll(ctx context.Context, meta FacetMetadata) (*models.EventResponse, error) {
	return c.logSearchEvent(ctx, searchpage.FacetClearAll, meta.toMap())
}

func (c *Client) LogFacetShowMore(ctx context.Context, meta FacetMetadata) (*models.EventResponse, error) {
	return c.logCustomEvent(ctx, searchpage.FacetShowMore, meta.toMap())
}

func (c *Client) LogFacetShowLess(ctx context.Context, meta FacetMetadata) (*models.EventResponse, error) {
	return c.logCustomEvent(ctx, searchpage.FacetShowLess, meta.toMap())
}

type QueryErrorMetadata struct {
	Query        string
	AQ           string
	CQ           string
	DQ           string
	ErrorType    string
	ErrorMessage string
}

func (c *Client) LogQueryError(ctx context.Context, meta QueryErrorMetadata) (*models.EventResponse, error) {
	return c.logCustomEvent(ctx, searchpage.QueryError, map[string]any{
		"query":        meta.Query,
		"aq":           meta.AQ,
		"cq":           meta.CQ,
		"dq":           meta.DQ,
		"errorType":    meta.ErrorType,
		"errorMessage": meta.ErrorMessage,
	})
}

func (c *Client) LogDocumentOpen(ctx context.Context, info models.PartialDocumentInformation, identifier models.DocumentIdentifier) (*models.EventResponse, error) {
	request := &models.ClickEventRequest{
		EventBase: c.eventBase(map[string]any{
			"contentIDKey":   identifier.ContentIDKey,
			"contentIDValue": identifier.ContentIDValue,
		}),
		DocumentURI:      info.DocumentURI,
		DocumentURIHash:  info.DocumentURIHash,
		CollectionName:   info.CollectionName,
		SourceName:       info.SourceName,
		DocumentPosition: info.DocumentPosition,
		ActionCause:      searchpage.DocumentOpen.String(),
		SearchQueryUID:   c.provider.SearchUID(),
		QueryPipeline:    c.provider.Pipeline(),
		RankingModifier:  info.RankingModifier,
		DocumentTitle:    info.DocumentTitle,
		DocumentURL:      info.DocumentURL,
		DocumentAuthor:   info.DocumentAuthor,
	}
	return c.events.SendClickEvent(ctx, request)
}

func (c *Client) logSearchEvent(ctx context.Context, event searchpage.Event, meta map[string]any) (*models.EventResponse, error) {
	payload := c.provider.SearchEventRequestPayload()
	payload.SearchQueryUID = c.provider.SearchUID()
	payload.QueryPipeline = c.provider.Pipeline()

	request := &models.SearchEventRequest{
		EventBase:          c.eventBase(meta),
		SearchEventPayload: payload,
		ActionCause:        event.String(),
		FacetState:         c.provider.FacetState(),
	}
	return c.events.SendSearchEvent(ctx, request)
}

func (c *Client) logCustomEvent(ctx context.Context, event searchpage.Event, meta map[string]any) (*models.EventResponse, error) {
	request := &models.CustomEventRequest{
		EventBase:          c.eventBase(meta),
		EventType:          searchpage.CustomEventType(event),
		EventValue:         event.String(),
		LastSearchQueryUID: c.provider.SearchUID(),
	}
	return c.events.SendCustomEvent(ctx, request)
}

// eventBase snapshots the provider. customData is the base metadata with the
// caller's metadata laid over it.
func (c *Client) eventBase(meta map[string]any) models.EventBase {
	return models.EventBase{
		Language:      c.provider.Language(),
		CustomData:    models.MergeCustomData(c.provider.BaseMetadata(), meta),
		Anonymous:     c.provider.IsAnonymous(),
		OriginContext: c.provider.OriginContext(),
		OriginLevel1:  c.provider.OriginLevel1(),
		OriginLevel2:  c.provider.OriginLevel2(),
		OriginLevel3:  c.provider.OriginLevel3(),
	}
}
