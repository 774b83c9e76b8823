package filter

import (
	"encoding/json"
	"strconv"
	"strings"

	"gsa/internal/gmp/parser"
)

// Keywords that control paging and sorting.
const (
	KeywordFirst       = "first"
	KeywordRows        = "rows"
	KeywordSort        = "sort"
	KeywordSortReverse = "sort-reverse"
)

// RowsAll requests all rows in one page.
const RowsAll = -1

var extraKeywords = map[string]bool{
	"apply_overrides":   true,
	"autofp":            true,
	"delta_states":      true,
	"first":             true,
	"ignore_pagination": true,
	"levels":            true,
	"min_qod":           true,
	"notes":             true,
	"overrides":         true,
	"result_hosts_only": true,
	"rows":              true,
	"sort":              true,
	"sort-reverse":      true,
	"timezone":          true,
}

// IsExtraKeyword reports whether keyword changes how results are presented
// instead of which entities are selected.
func IsExtraKeyword(keyword string) bool {
	return extraKeywords[strings.ToLower(keyword)]
}

// Filter is an ordered list of terms. ID and Name are set when the filter
// was loaded from a saved filter entity.
type Filter struct {
	ID    string
	Name  string
	terms []Term
}

// New returns an empty filter.
func New() *Filter { return &Filter{} }

// Parse splits s on whitespace outside double quotes and parses every part
// as a term.
func Parse(s string) *Filter {
	f := New()
	for _, tok := range tokenize(s) {
		f.AddTerm(ParseTerm(tok))
	}
	return f
}

// FromElement builds a filter from the <filters> element of a list response.
// The structured <keywords> list is preferred over the raw <term>.
func FromElement(el *parser.Element) *Filter {
	if el == nil {
		return New()
	}

	var f *Filter
	if kws := el.Child("keywords").ChildrenNamed("keyword"); len(kws) > 0 {
		f = New()
		for _, kw := range kws {
			f.AddTerm(Term{
				Keyword:  strings.ToLower(kw.ChildText("column")),
				Relation: kw.ChildText("relation"),
				Value:    unquote(kw.ChildText("value")),
			})
		}
	} else {
		f = Parse(el.ChildText("term"))
	}

	// id 0 is the not-saved placeholder of gvmd
	if id := el.Attr("id"); id != "0" {
		f.ID = id
	}
	f.Name = el.ChildText("name")
	return f
}

func tokenize(s string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// AddTerm appends t. A previous term with the same extra keyword, or with the
// same criteria keyword and relation, is replaced.
func (f *Filter) AddTerm(t Term) *Filter {
	if t.Keyword == "" {
		if t.Value != "" || t.Relation != "" {
			f.terms = append(f.terms, t)
		}
		return f
	}

	if t.IsExtra() {
		f.remove(func(o Term) bool {
			if o.Keyword == t.Keyword {
				return true
			}
			return isSortKeyword(t.Keyword) && isSortKeyword(o.Keyword)
		})
	} else {
		f.remove(func(o Term) bool {
			return o.Keyword == t.Keyword && o.Relation == t.Relation
		})
	}
	f.terms = append(f.terms, t)
	return f
}

// SetTerm replaces all terms of t's keyword with t.
func (f *Filter) SetTerm(t Term) *Filter {
	if t.Keyword == "" {
		return f.AddTerm(t)
	}
	f.Delete(t.Keyword)
	return f.AddTerm(t)
}

// Set binds keyword to value with the equal relation.
func (f *Filter) Set(keyword, value string) *Filter {
	return f.SetTerm(Term{Keyword: strings.ToLower(keyword), Relation: RelationEqual, Value: value})
}

// SetInt is Set for numeric values.
func (f *Filter) SetInt(keyword string, value int) *Filter {
	return f.Set(keyword, strconv.Itoa(value))
}

// Delete removes all terms of keyword.
func (f *Filter) Delete(keyword string) *Filter {
	keyword = strings.ToLower(keyword)
	f.remove(func(o Term) bool { return o.Keyword == keyword })
	return f
}

func (f *Filter) remove(match func(Term) bool) {
	kept := f.terms[:0]
	for _, t := range f.terms {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	f.terms = kept
}

// Term returns the first term of keyword.
func (f *Filter) Term(keyword string) (Term, bool) {
	keyword = strings.ToLower(keyword)
	for _, t := range f.terms {
		if t.Keyword == keyword {
			return t, true
		}
	}
	return Term{}, false
}

// Get returns the value of the first term of keyword or "".
func (f *Filter) Get(keyword string) string {
	t, _ := f.Term(keyword)
	return t.Value
}

// Has reports whether a term of keyword exists.
func (f *Filter) Has(keyword string) bool {
	_, ok := f.Term(keyword)
	return ok
}

// Terms returns a copy of all terms in order.
func (f *Filter) Terms() []Term {
	out := make([]Term, len(f.terms))
	copy(out, f.terms)
	return out
}

// TermsOf returns all terms of keyword.
func (f *Filter) TermsOf(keyword string) []Term {
	keyword = strings.ToLower(keyword)
	var out []Term
	for _, t := range f.terms {
		if t.Keyword == keyword {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of terms.
func (f *Filter) Len() int { return len(f.terms) }

// IsEmpty reports whether the filter has no terms.
func (f *Filter) IsEmpty() bool { return f == nil || len(f.terms) == 0 }

// IsSaved reports whether the filter belongs to a saved filter entity.
func (f *Filter) IsSaved() bool { return f.ID != "" }

// Copy returns a deep copy.
func (f *Filter) Copy() *Filter {
	return &Filter{ID: f.ID, Name: f.Name, terms: f.Terms()}
}

// String serializes all terms.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return join(f.terms, func(Term) bool { return true })
}

// CriteriaString serializes the terms selecting entities only.
func (f *Filter) CriteriaString() string {
	return join(f.terms, func(t Term) bool { return !t.IsExtra() })
}

// ExtraString serializes the paging, sorting and display terms only.
func (f *Filter) ExtraString() string {
	return join(f.terms, func(t Term) bool { return t.IsExtra() })
}

func join(terms []Term, keep func(Term) bool) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if keep(t) {
			parts = append(parts, t.String())
		}
	}
	return strings.Join(parts, " ")
}

// Equal reports whether both filters contain the same terms regardless of order.
func (f *Filter) Equal(o *Filter) bool {
	if f.IsEmpty() || o.IsEmpty() {
		return f.IsEmpty() && o.IsEmpty()
	}
	if len(f.terms) != len(o.terms) {
		return false
	}
	used := make([]bool, len(o.terms))
	for _, t := range f.terms {
		found := false
		for i, ot := range o.terms {
			if !used[i] && t.Equal(ot) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Merge adds the terms of o, overriding terms of the same keyword.
func (f *Filter) Merge(o *Filter) *Filter {
	if o == nil {
		return f
	}
	for _, t := range o.terms {
		if t.Keyword == "" {
			if !f.hasTerm(t) {
				f.AddTerm(t)
			}
			continue
		}
		f.AddTerm(t)
	}
	return f
}

// MergeKeywords adds keyword terms of o whose keyword is missing in f.
func (f *Filter) MergeKeywords(o *Filter) *Filter {
	return f.mergeMissing(o, func(t Term) bool { return t.Keyword != "" })
}

// MergeExtraKeywords adds extra keyword terms of o whose keyword is missing in f.
func (f *Filter) MergeExtraKeywords(o *Filter) *Filter {
	return f.mergeMissing(o, Term.IsExtra)
}

func (f *Filter) mergeMissing(o *Filter, keep func(Term) bool) *Filter {
	if o == nil {
		return f
	}
	for _, t := range o.terms {
		if !keep(t) || f.Has(t.Keyword) {
			continue
		}
		// sort and sort-reverse count as one keyword
		if isSortKeyword(t.Keyword) && (f.Has(KeywordSort) || f.Has(KeywordSortReverse)) {
			continue
		}
		f.terms = append(f.terms, t)
	}
	return f
}

func (f *Filter) hasTerm(t Term) bool {
	for _, o := range f.terms {
		if o.Equal(t) {
			return true
		}
	}
	return false
}

// First returns the index of the first row, at least 1.
func (f *Filter) First() int {
	n, err := strconv.Atoi(f.Get(KeywordFirst))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Rows returns the page size, 0 if unset and RowsAll for all rows.
func (f *Filter) Rows() int {
	n, err := strconv.Atoi(f.Get(KeywordRows))
	if err != nil {
		return 0
	}
	return n
}

// Next returns a copy pointing to the following page. Without a positive
// page size the copy is unchanged.
func (f *Filter) Next() *Filter {
	c := f.Copy()
	if rows := f.Rows(); rows > 0 {
		c.SetInt(KeywordFirst, f.First()+rows)
	}
	return c
}

// Previous returns a copy pointing to the preceding page, never before row 1.
func (f *Filter) Previous() *Filter {
	c := f.Copy()
	if rows := f.Rows(); rows > 0 {
		c.SetInt(KeywordFirst, max(f.First()-rows, 1))
	}
	return c
}

// FirstPage returns a copy starting at row 1.
func (f *Filter) FirstPage() *Filter {
	return f.Copy().SetInt(KeywordFirst, 1)
}

// LastPage returns a copy pointing to the page holding the last of filtered rows.
func (f *Filter) LastPage(filtered int) *Filter {
	rows := f.Rows()
	if rows <= 0 || filtered <= 0 {
		return f.FirstPage()
	}
	return f.Copy().SetInt(KeywordFirst, ((filtered-1)/rows)*rows+1)
}

// All returns a copy requesting every row in one page.
func (f *Filter) All() *Filter {
	return f.Copy().SetInt(KeywordFirst, 1).SetInt(KeywordRows, RowsAll)
}

// Simple returns a copy without paging and sorting terms.
func (f *Filter) Simple() *Filter {
	return f.Copy().
		Delete(KeywordFirst).
		Delete(KeywordRows).
		Delete(KeywordSort).
		Delete(KeywordSortReverse)
}

// SortBy returns the sort field.
func (f *Filter) SortBy() string {
	if v := f.Get(KeywordSortReverse); v != "" {
		return v
	}
	return f.Get(KeywordSort)
}

// SortOrder returns KeywordSortReverse for descending order, else KeywordSort.
func (f *Filter) SortOrder() string {
	if f.Has(KeywordSortReverse) {
		return KeywordSortReverse
	}
	return KeywordSort
}

// SetSortBy sorts by field keeping the current order.
func (f *Filter) SetSortBy(field string) *Filter {
	return f.Set(f.SortOrder(), field)
}

// SetSortOrder switches between KeywordSort and KeywordSortReverse keeping
// the sort field.
func (f *Filter) SetSortOrder(order string) *Filter {
	if order != KeywordSortReverse {
		order = KeywordSort
	}
	field := f.SortBy()
	f.Delete(KeywordSort).Delete(KeywordSortReverse)
	if field == "" {
		return f
	}
	return f.Set(order, field)
}

func isSortKeyword(k string) bool {
	return k == KeywordSort || k == KeywordSortReverse
}

type filterJSON struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Term  string `json:"term"`
	Terms []Term `json:"terms"`
}

// MarshalJSON renders the filter with its serialized term and term list.
func (f *Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(filterJSON{ID: f.ID, Name: f.Name, Term: f.String(), Terms: f.Terms()})
}

// UnmarshalJSON accepts the MarshalJSON form; the term string wins over the list.
func (f *Filter) UnmarshalJSON(b []byte) error {
	var raw filterJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed := Parse(raw.Term)
	if parsed.IsEmpty() {
		parsed = New()
		for _, t := range raw.Terms {
			parsed.AddTerm(t)
		}
	}
	*f = *parsed
	f.ID, f.Name = raw.ID, raw.Name
	return nil
}
