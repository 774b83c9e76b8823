package model

import "gsa/internal/gmp/parser"

// Tag attaches a name/value pair to a set of resources of one type.
type Tag struct {
	Model
	Value         string      `json:"value,omitempty"`
	ResourceType  string      `json:"resource_type,omitempty"`
	ResourceCount int         `json:"resource_count"`
	Resources     []Reference `json:"resources,omitempty"`
}

// NewTagFromElement parses a <tag> element.
func NewTagFromElement(el *parser.Element) Tag {
	res := el.Child("resources")
	t := Tag{
		Model:        ParseModel(el, "tag"),
		Value:        el.ChildText("value"),
		ResourceType: NormalizeType(res.ChildText("type")),
		Resources:    ParseReferences(res, "resource"),
	}
	t.ResourceCount = parser.CountOf(res.Child("count"))
	if t.ResourceCount == 0 {
		t.ResourceCount = len(t.Resources)
	}
	return t
}
