// Package parser normalizes the loosely typed values found in GMP XML responses.
//
// GMP is not consistent about how it encodes booleans, numbers, dates or lists:
// the same concept may arrive as "1", "yes" or "true", as an attribute or as a
// child element, and optional values are often sent as empty elements. The
// helpers in this package turn those variants into Go values.
package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// YesNo mirrors the GMP 0/1 flags.
type YesNo int

const (
	No  YesNo = 0
	Yes YesNo = 1
)

// Bool reports whether the flag is set.
func (y YesNo) Bool() bool { return y == Yes }

// Qod is a quality of detection value.
type Qod struct {
	Value float64 `json:"value"`
	Type  string  `json:"type,omitempty"`
}

// ParseInt parses an integer. Floats are truncated. The second result is false
// for empty or unparsable input.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// IntOr returns the parsed integer or def.
func IntOr(s string, def int) int {
	if i, ok := ParseInt(s); ok {
		return i
	}
	return def
}

// ParseFloat parses a floating point number.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseSeverity returns nil for an empty or invalid severity.
func ParseSeverity(s string) *float64 {
	f, ok := ParseFloat(s)
	if !ok {
		return nil
	}
	return &f
}

// ParseProgress returns the progress percentage clamped to [-1, 100].
// -1 is used by gvmd when the progress is unknown.
func ParseProgress(s string) int {
	p, ok := ParseInt(s)
	if !ok {
		return 0
	}
	switch {
	case p < -1:
		return -1
	case p > 100:
		return 100
	}
	return p
}

// ParseYesNo maps "1" and "yes" to Yes and anything else to No. Use
// ParseBoolean for the looser spellings.
func ParseYesNo(s string) YesNo {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes":
		return Yes
	}
	return No
}

// ParseBoolean accepts the spellings gvmd and gsad use for true values.
func ParseBoolean(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true
	}
	if i, ok := ParseInt(s); ok {
		return i != 0
	}
	return false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.ANSIC,
}

// ParseDate parses the date formats found in GMP responses.
// The zero time is returned for empty or unknown input.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseDuration interprets s as a number of seconds.
func ParseDuration(s string) time.Duration {
	f, ok := ParseFloat(s)
	if !ok {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

// ParseQod reads a <qod><value/><type/></qod> element.
func ParseQod(e *Element) Qod {
	if e == nil {
		return Qod{}
	}
	v, _ := ParseFloat(e.ChildText("value"))
	return Qod{Value: v, Type: e.ChildText("type")}
}

// ParseCsv splits a comma separated list, trimming items and dropping empty ones.
func ParseCsv(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseProperties parses "key=value|key=value" strings such as NVT tags.
// Items without "=" are stored with an empty value.
func ParseProperties(s string) map[string]string {
	out := make(map[string]string)
	for _, item := range strings.Split(s, "|") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		k, v, _ := strings.Cut(item, "=")
		out[strings.TrimSpace(k)] = v
	}
	return out
}

// ParseTextElement returns the text and the optional type attribute of elements
// like <text excerpt="1">...</text> or <description type="html">...</description>.
func ParseTextElement(e *Element) (text, kind string) {
	if e == nil {
		return "", ""
	}
	return e.Text, e.Attr("type")
}

// CountOf reads counters encoded as <x_count>N<filtered>M</filtered></x_count>
// where the total may also be carried by a <total> child.
func CountOf(e *Element) int {
	if e == nil {
		return 0
	}
	if v, ok := ParseInt(e.Text); ok {
		return v
	}
	return IntOr(e.ChildText("total"), 0)
}
