// Package searchpage lists the action causes reported by a search interface
// and the custom-event category each custom action belongs to.
package searchpage

// Event is a stable action-cause tag.
type Event string

const (
	InterfaceLoad      Event = "interfaceLoad"
	InterfaceChange    Event = "interfaceChange"
	SearchboxSubmit    Event = "searchboxSubmit"
	BreadcrumbResetAll Event = "breadcrumbResetAll"
	ResultsSort        Event = "resultsSort"
	DocumentOpen       Event = "documentOpen"

	FacetSelect     Event = "facetSelect"
	FacetDeselect   Event = "facetDeselect"
	FacetUpdateSort Event = "facetUpdateSort"
	FacetClearAll   Event = "facetClearAll"
	FacetShowMore   Event = "showMoreFacetResults"
	FacetShowLess   Event = "showLessFacetResults"

	PagerScrolling Event = "pagerScrolling"
	PagerNumber    Event = "pagerNumber"
	PagerNext      Event = "pagerNext"
	PagerPrevious  Event = "pagerPrevious"

	QueryError Event = "query"
)

// CustomEventTypes maps custom actions to their eventType category.
var CustomEventTypes = map[Event]string{
	PagerScrolling: "getMoreResults",
	PagerNumber:    "getMoreResults",
	PagerNext:      "getMoreResults",
	PagerPrevious:  "getMoreResults",
	FacetShowMore:  "facet",
	FacetShowLess:  "facet",
	QueryError:     "errors",
}

// CustomEventType returns the category of a custom action, or "" when the
// action is not a custom event.
func CustomEventType(event Event) string {
	return CustomEventTypes[event]
}

func (e Event) String() string {
	return string(e)
}
