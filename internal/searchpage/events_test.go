package searchpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomEventType(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{event: PagerScrolling, want: "getMoreResults"},
		{event: PagerNext, want: "getMoreResults"},
		{event: FacetShowMore, want: "facet"},
		{event: FacetShowLess, want: "facet"},
		{event: QueryError, want: "errors"},
		{event: InterfaceLoad, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CustomEventType(tt.event))
		})
	}
}
