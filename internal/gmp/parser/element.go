package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyDocument is returned by Decode when the input holds no root element.
var ErrEmptyDocument = errors.New("empty xml document")

// Element is a decoded XML node of a GMP response.
// All accessors are safe to call on a nil *Element so that optional parts of a
// response can be navigated without checking every step.
type Element struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

// Decode reads a complete XML document and returns its root element.
func Decode(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				el.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("decode xml: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("decode xml: unexpected end element %s", t.Name.Local)
			}
			cur := stack[len(stack)-1]
			cur.Text = strings.TrimSpace(cur.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// DecodeString is a convenience wrapper around Decode.
func DecodeString(s string) (*Element, error) {
	return Decode(strings.NewReader(s))
}

// Attr returns the value of the named attribute or "".
func (e *Element) Attr(name string) string {
	if e == nil || e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is present, even if empty.
func (e *Element) HasAttr(name string) bool {
	if e == nil || e.Attrs == nil {
		return false
	}
	_, ok := e.Attrs[name]
	return ok
}

// Child returns the first direct child with the given name.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name.
func (e *Element) ChildrenNamed(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether a direct child with the given name exists.
func (e *Element) Has(name string) bool {
	return e.Child(name) != nil
}

// Path follows a slash separated list of child names.
func (e *Element) Path(path string) *Element {
	cur := e
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Value returns the trimmed character data of the element.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	return e.Text
}

// ChildText returns the text of the element reached by path.
func (e *Element) ChildText(path string) string {
	return e.Path(path).Value()
}

// IsEmpty reports whether the element has neither text, attributes nor children.
func (e *Element) IsEmpty() bool {
	return e == nil || (e.Text == "" && len(e.Attrs) == 0 && len(e.Children) == 0)
}

// Find returns the first element named name in a depth first walk, including e itself.
func (e *Element) Find(name string) *Element {
	if e == nil {
		return nil
	}
	if e.Name == name {
		return e
	}
	for _, c := range e.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
