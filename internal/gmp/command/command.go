// Package command builds GMP requests for entity types and decodes their
// replies into models.
//
// Each entity type is described by a Resource. EntityCommand and
// EntitiesCommand implement the operations gsad offers for every type, the
// typed commands in this package add the type specific ones.
package command

import (
	"context"
	"errors"
	"fmt"

	"gsa/internal/gmp/parser"
	"gsa/internal/gmp/transport"
)

var (
	// ErrNotFound is returned when a response holds no entity.
	ErrNotFound = errors.New("entity not found")

	// ErrUnknownType is returned by Registry.Lookup.
	ErrUnknownType = errors.New("unknown entity type")
)

// Sender sends GMP commands. *transport.Client implements it.
type Sender interface {
	Get(ctx context.Context, p transport.Params) (*transport.Response, error)
	Post(ctx context.Context, p transport.Params) (*transport.Response, error)
	Download(ctx context.Context, method string, p transport.Params) (*transport.Download, error)
}

// Resource describes how an entity type is addressed in GMP.
type Resource struct {
	// Type is the front-end entity type, e.g. "host".
	Type string
	// Name is the GMP resource used in command names, e.g. "asset".
	Name string
	// Element is the element of one entity in list responses.
	Element string
	// Plural is the element carrying the paging attributes.
	Plural string
	// Extra are parameters sent with every get command, e.g. asset_type=host.
	Extra map[string]string
}

func (r Resource) idParam() string { return r.Name + "_id" }

func (r Resource) params(cmd string) transport.Params {
	p := transport.NewParams(cmd)
	for k, v := range r.Extra {
		p.Set(k, v)
	}
	return p
}

// entityElement returns the first entity child of a response.
func entityElement(data *parser.Element, name string) *parser.Element {
	for _, c := range data.ChildrenNamed(name) {
		// get_info lists carry the paging attributes on an <info> element
		if c.HasAttr("start") && !c.HasAttr("id") {
			continue
		}
		return c
	}
	return nil
}

// actionID returns the id of a created entity from <action_result> or
// the <create_*_response id=""> element.
func actionID(resp *transport.Response) (string, error) {
	if resp.Data == nil {
		return "", errors.New("empty response")
	}
	if id := resp.Data.ChildText("id"); id != "" {
		return id, nil
	}
	if id := resp.Data.Attr("id"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%s carries no id", resp.Data.Name)
}
