package model

import (
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/parser"
)

// Filter is a saved filter entity.
type Filter struct {
	Model
	Term       string      `json:"term"`
	FilterType string      `json:"filter_type,omitempty"`
	Alerts     []Reference `json:"alerts,omitempty"`
}

// NewFilterFromElement parses a <filter> element.
func NewFilterFromElement(el *parser.Element) Filter {
	return Filter{
		Model:      ParseModel(el, "filter"),
		Term:       el.ChildText("term"),
		FilterType: NormalizeType(el.ChildText("type")),
		Alerts:     ParseReferences(el.Child("alerts"), "alert"),
	}
}

// Query returns the parsed term bound to the saved filter.
func (f Filter) Query() *filter.Filter {
	q := filter.Parse(f.Term)
	q.ID = f.ID
	q.Name = f.Name
	return q
}
