package model

import (
	"encoding/json"
	"sort"
	"strings"
)

const everything = "everything"

// Capabilities is the set of GMP commands a user may run.
// A set containing "everything" grants every command.
type Capabilities struct {
	names map[string]struct{}
}

// NewCapabilities builds a set from command names. Names are case insensitive.
func NewCapabilities(names []string) Capabilities {
	c := Capabilities{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			c.names[n] = struct{}{}
		}
	}
	return c
}

// Has reports whether name is explicitly part of the set.
func (c Capabilities) Has(name string) bool {
	_, ok := c.names[strings.ToLower(name)]
	return ok
}

// MayOp reports whether the command op is allowed.
func (c Capabilities) MayOp(op string) bool {
	return c.Has(op) || c.Has(everything)
}

// MayAccess reports whether entities of type may be listed.
func (c Capabilities) MayAccess(entityType string) bool {
	return c.MayOp("get_" + PluralType(capabilityType(entityType)))
}

// MayCreate reports whether entities of type may be created.
func (c Capabilities) MayCreate(entityType string) bool {
	return c.MayOp("create_" + capabilityType(entityType))
}

// MayClone is the same as MayCreate, cloning creates a new entity.
func (c Capabilities) MayClone(entityType string) bool {
	return c.MayCreate(entityType)
}

// MayEdit reports whether entities of type may be modified.
func (c Capabilities) MayEdit(entityType string) bool {
	return c.MayOp("modify_" + capabilityType(entityType))
}

// MayDelete reports whether entities of type may be deleted.
func (c Capabilities) MayDelete(entityType string) bool {
	return c.MayOp("delete_" + capabilityType(entityType))
}

// Length returns the number of names in the set.
func (c Capabilities) Length() int { return len(c.names) }

// Names returns the sorted command names.
func (c Capabilities) Names() []string {
	out := make([]string, 0, len(c.names))
	for n := range c.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted list.
func (c Capabilities) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Names())
}

// UnmarshalJSON decodes a list of command names.
func (c *Capabilities) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	*c = NewCapabilities(names)
	return nil
}

// capabilityType maps front-end types to the resource used in command names.
func capabilityType(entityType string) string {
	switch t := NormalizeType(entityType); t {
	case "host", "operatingsystem":
		return "asset"
	case "cpe", "cve", "certbund", "dfncert", "nvt":
		return "info"
	default:
		return ApiType(t)
	}
}
