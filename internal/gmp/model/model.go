// Package model contains the typed domain objects built from GMP responses.
//
// Every entity embeds Model, which carries the fields gvmd sends for all
// resources. Constructors never fail: missing or malformed fields simply keep
// their zero value, matching how the web front-end treats partial responses.
package model

import (
	"time"

	"gsa/internal/gmp/parser"
)

// UserTag is a tag attached to an entity as listed in <user_tags>.
type UserTag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Value   string `json:"value,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Reference points to another entity, e.g. the target of a task.
type Reference struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Trash bool   `json:"trash,omitempty"`
}

// Model holds the attributes common to all GMP entities.
type Model struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Comment          string       `json:"comment,omitempty"`
	EntityType       string       `json:"entity_type"`
	Owner            string       `json:"owner,omitempty"`
	CreationTime     time.Time    `json:"creation_time"`
	ModificationTime time.Time    `json:"modification_time"`
	Writable         bool         `json:"writable"`
	InUse            bool         `json:"in_use"`
	Orphan           bool         `json:"orphan,omitempty"`
	Active           bool         `json:"active"`
	Trash            bool         `json:"trash,omitempty"`
	Summary          string       `json:"summary,omitempty"`
	UserTags         []UserTag    `json:"user_tags,omitempty"`
	UserCapabilities Capabilities `json:"user_capabilities"`
}

// ParseModel reads the common entity fields of el.
func ParseModel(el *parser.Element, entityType string) Model {
	m := Model{
		ID:               el.Attr("id"),
		Name:             el.ChildText("name"),
		Comment:          el.ChildText("comment"),
		EntityType:       entityType,
		Owner:            el.ChildText("owner/name"),
		CreationTime:     parser.ParseDate(el.ChildText("creation_time")),
		ModificationTime: parser.ParseDate(el.ChildText("modification_time")),
		Writable:         parser.ParseBoolean(el.ChildText("writable")),
		InUse:            parser.ParseBoolean(el.ChildText("in_use")),
		Orphan:           parser.ParseBoolean(el.ChildText("orphan")),
		Trash:            parser.ParseBoolean(el.ChildText("trash")),
		Summary:          el.ChildText("summary"),
	}

	// Entities without an <active> element are considered active.
	if active := el.Child("active"); active != nil {
		m.Active = parser.ParseBoolean(active.Value())
	} else {
		m.Active = true
	}

	var names []string
	for _, p := range el.Child("permissions").ChildrenNamed("permission") {
		if n := p.ChildText("name"); n != "" {
			names = append(names, n)
		}
	}
	m.UserCapabilities = NewCapabilities(names)

	for _, t := range el.Child("user_tags").ChildrenNamed("tag") {
		m.UserTags = append(m.UserTags, UserTag{
			ID:      t.Attr("id"),
			Name:    t.ChildText("name"),
			Value:   t.ChildText("value"),
			Comment: t.ChildText("comment"),
		})
	}
	return m
}

// IsWritable reports whether the current user may modify the entity.
func (m Model) IsWritable() bool { return m.Writable }

// IsInUse reports whether other resources reference the entity.
func (m Model) IsInUse() bool { return m.InUse }

// IsOrphan reports whether the entity lost its referenced resources.
func (m Model) IsOrphan() bool { return m.Orphan }

// IsActive reports whether the entity is enabled.
func (m Model) IsActive() bool { return m.Active }

// IsInTrash reports whether the entity lives in the trashcan.
func (m Model) IsInTrash() bool { return m.Trash }

// GetID returns the entity id.
func (m Model) GetID() string { return m.ID }

// GetName returns the entity name.
func (m Model) GetName() string { return m.Name }

// ParseReference returns nil when el is missing or has no id.
func ParseReference(el *parser.Element) *Reference {
	if el == nil || el.Attr("id") == "" {
		return nil
	}
	return &Reference{
		ID:    el.Attr("id"),
		Name:  el.ChildText("name"),
		Type:  el.ChildText("type"),
		Trash: parser.ParseBoolean(el.ChildText("trash")),
	}
}

// ParseReferences reads all children named name of el as references.
func ParseReferences(el *parser.Element, name string) []Reference {
	var out []Reference
	for _, c := range el.ChildrenNamed(name) {
		if ref := ParseReference(c); ref != nil {
			out = append(out, *ref)
		}
	}
	return out
}

// Entity is implemented by all models.
type Entity interface {
	GetID() string
	GetName() string
}
