// Package collection turns get_<entities> responses into typed entity lists
// together with the filter gvmd applied and the paging counters.
package collection

import (
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/parser"
)

// Counts are the paging counters of a list response.
type Counts struct {
	First    int `json:"first"`
	Rows     int `json:"rows"`
	Length   int `json:"length"`
	Filtered int `json:"filtered"`
	All      int `json:"all"`
	Last     int `json:"last"`
}

// NewCounts derives Last from first and length.
func NewCounts(first, rows, length, filtered, all int) Counts {
	if first < 1 {
		first = 1
	}
	return Counts{
		First:    first,
		Rows:     rows,
		Length:   length,
		Filtered: filtered,
		All:      all,
		Last:     first + length - 1,
	}
}

// IsFirst reports whether the page starts at the first row.
func (c Counts) IsFirst() bool { return c.First <= 1 }

// IsLast reports whether no rows follow the page.
func (c Counts) IsLast() bool { return c.Last >= c.Filtered }

// HasNext reports whether a following page exists.
func (c Counts) HasNext() bool { return c.Last < c.Filtered }

// HasPrevious reports whether a preceding page exists.
func (c Counts) HasPrevious() bool { return c.First > 1 }

// Collection is a page of entities.
type Collection[T any] struct {
	Entities  []T            `json:"entities"`
	Filter    *filter.Filter `json:"filter"`
	Counts    Counts         `json:"counts"`
	SortField string         `json:"sort_field,omitempty"`
	SortOrder string         `json:"sort_order,omitempty"`
}

// Parse reads all children named name of the response element el with fn.
// plural is the name of the element carrying the start and max attributes,
// e.g. "tasks" for get_tasks or "info" for get_info.
func Parse[T any](el *parser.Element, name, plural string, fn func(*parser.Element) T) Collection[T] {
	c := Collection[T]{
		Entities: make([]T, 0),
		Filter:   ParseFilter(el),
	}
	for _, child := range el.ChildrenNamed(name) {
		if isCountsElement(child, plural) {
			continue
		}
		c.Entities = append(c.Entities, fn(child))
	}

	c.Counts = ParseCounts(el, name, plural)
	if c.Counts.Length == 0 && len(c.Entities) > 0 {
		c.Counts = NewCounts(c.Counts.First, c.Counts.Rows, len(c.Entities), c.Counts.Filtered, c.Counts.All)
	}

	if field := el.Path("sort/field"); field != nil {
		c.SortField = field.Value()
		c.SortOrder = field.ChildText("order")
	}
	return c
}

// ParseCounts reads <plural start max/> and <name_count>all<filtered/><page/></name_count>.
func ParseCounts(el *parser.Element, name, plural string) Counts {
	var paging *parser.Element
	for _, child := range el.ChildrenNamed(plural) {
		if isCountsElement(child, plural) {
			paging = child
			break
		}
	}
	count := el.Child(name + "_count")

	return NewCounts(
		parser.IntOr(paging.Attr("start"), 1),
		parser.IntOr(paging.Attr("max"), 0),
		parser.IntOr(count.ChildText("page"), 0),
		parser.IntOr(count.ChildText("filtered"), 0),
		parser.CountOf(count),
	)
}

// ParseFilter returns the filter of the response, or an empty one.
func ParseFilter(el *parser.Element) *filter.Filter {
	return filter.FromElement(el.Child("filters"))
}

// for get_info the paging element shares the entity name
func isCountsElement(el *parser.Element, plural string) bool {
	return el.Name == plural && el.HasAttr("start") && !el.HasAttr("id")
}
