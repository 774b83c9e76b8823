// Package filter parses and serializes GMP filter strings such as
// `severity>3 rows=10 sort=name`.
//
// A filter is an ordered list of terms. A term either binds a keyword to a
// value through a relation (`severity>3`) or is a plain search value that may
// carry a leading relation (`~foo`, `=bar`, `-baz`).
package filter

import (
	"strings"
)

// Relations with a keyword.
const (
	RelationEqual    = "="
	RelationContains = "~"
	RelationLess     = "<"
	RelationGreater  = ">"
	RelationColumn   = ":"
)

// RelationNot is only valid as prefix of a keyword-less term.
const RelationNot = "-"

var keywordRelations = []string{RelationEqual, RelationContains, RelationLess, RelationGreater, RelationColumn}

// Term is a single filter term.
type Term struct {
	Keyword  string `json:"keyword,omitempty"`
	Relation string `json:"relation,omitempty"`
	Value    string `json:"value"`
}

// ParseTerm parses one term. Double quotes are removed from the value, an
// unterminated quote included.
func ParseTerm(s string) Term {
	s = strings.TrimSpace(s)

	idx := -1
	rel := ""
	for _, r := range keywordRelations {
		if i := indexOutsideQuotes(s, r); i >= 0 && (idx < 0 || i < idx) {
			idx, rel = i, r
		}
	}

	switch {
	case idx > 0:
		return Term{
			Keyword:  strings.ToLower(s[:idx]),
			Relation: rel,
			Value:    unquote(s[idx+1:]),
		}
	case idx == 0 && rel != RelationColumn:
		return Term{Relation: rel, Value: unquote(s[1:])}
	case strings.HasPrefix(s, RelationNot) && len(s) > 1:
		return Term{Relation: RelationNot, Value: unquote(s[1:])}
	}
	return Term{Value: unquote(s)}
}

// HasKeyword reports whether the term binds a keyword.
func (t Term) HasKeyword() bool { return t.Keyword != "" }

// IsExtra reports whether the term controls paging, sorting or display
// options rather than selecting entities.
func (t Term) IsExtra() bool { return IsExtraKeyword(t.Keyword) }

// String serializes the term. Values are quoted when they hold whitespace or,
// for keyword-less terms, when they would otherwise parse as a relation.
// GMP has no escape for double quotes, so quotes inside values are dropped.
func (t Term) String() string {
	v := strings.ReplaceAll(t.Value, `"`, "")
	if needsQuotes(v, t.Keyword == "") {
		v = `"` + v + `"`
	}
	if t.Keyword == "" {
		return t.Relation + v
	}
	return t.Keyword + t.Relation + v
}

// Equal compares keyword, relation and value.
func (t Term) Equal(o Term) bool {
	return t.Keyword == o.Keyword && t.Relation == o.Relation && t.Value == o.Value
}

func needsQuotes(v string, bare bool) bool {
	if strings.ContainsAny(v, " \t\n\r") {
		return true
	}
	return bare && (strings.ContainsAny(v, "=~<>:") || strings.HasPrefix(v, RelationNot))
}

func unquote(v string) string {
	return strings.ReplaceAll(v, `"`, "")
}

func indexOutsideQuotes(s, sub string) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes && strings.HasPrefix(s[i:], sub) {
			return i
		}
	}
	return -1
}
