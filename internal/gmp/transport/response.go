package transport

import (
	"strings"

	"gsa/internal/gmp/parser"
)

// Response is a decoded gsad reply.
type Response struct {
	// Data is the command result, e.g. <get_tasks_response> or <action_result>.
	Data *parser.Element
	Meta parser.EnvelopeMeta
	// SessionID is set when gsad issued a new session cookie.
	SessionID string
}

var envelopeMeta = map[string]bool{
	"version":           true,
	"vendor_version":    true,
	"token":             true,
	"time":              true,
	"timezone":          true,
	"login":             true,
	"role":              true,
	"session":           true,
	"i18n":              true,
	"client_address":    true,
	"backend_operation": true,
	"capabilities":      true,
}

// NewResponse splits the envelope into meta data and command result. Roots
// other than <envelope> are taken as the result itself. Wrappers such as
// <get_task> around <get_tasks_response> are skipped.
func NewResponse(root *parser.Element) *Response {
	if root.Name != "envelope" {
		return &Response{Data: root}
	}

	resp := &Response{Meta: parser.ParseEnvelopeMeta(root)}
	var fallback *parser.Element
	for _, c := range root.Children {
		if envelopeMeta[c.Name] {
			continue
		}
		if r := findResult(c); r != nil {
			resp.Data = r
			return resp
		}
		fallback = c
	}
	resp.Data = fallback
	return resp
}

func findResult(el *parser.Element) *parser.Element {
	if isResult(el.Name) {
		return el
	}
	for _, c := range el.Children {
		if r := findResult(c); r != nil {
			return r
		}
	}
	return nil
}

func isResult(name string) bool {
	return strings.HasSuffix(name, "_response") || name == "action_result"
}

// status returns the GMP status attribute of the result, 0 if missing.
func (r *Response) status() int {
	return parser.IntOr(r.Data.Attr("status"), 0)
}

// message returns the most specific error text of the response.
func (r *Response) message() string {
	for _, path := range []string{"message", "action_result/message", "gsad_response/message"} {
		if m := r.Data.ChildText(path); m != "" {
			return m
		}
	}
	return r.Data.Attr("status_text")
}
