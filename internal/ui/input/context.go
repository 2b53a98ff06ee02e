package input

import (
	"pdfmark/internal/ui/coordinator"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Coordinator *coordinator.Coordinator
}

// HasDocument reports whether a document is open
func (c *ModelContext) HasDocument() bool {
	return c.Coordinator != nil && c.Coordinator.HasDocument()
}

// IsAnnotating reports whether an annotate gesture is armed or in progress
func (c *ModelContext) IsAnnotating() bool {
	return c.Coordinator != nil && c.Coordinator.Annotation.IsDragging()
}

// SearchActive reports whether there are search results to step through
func (c *ModelContext) SearchActive() bool {
	return c.Coordinator != nil && c.Coordinator.Search.GetMatchCount() > 0
}

// SearchQuery returns the current query text
func (c *ModelContext) SearchQuery() string {
	if c.Coordinator == nil {
		return ""
	}
	return c.Coordinator.Search.GetQuery()
}
