package command

import (
	"context"
	"fmt"
	"net/http"

	"gsa/internal/gmp/collection"
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/model"
	"gsa/internal/gmp/parser"
	"gsa/internal/gmp/transport"
)

// EntityCommand runs the commands that address a single entity.
type EntityCommand[T any] struct {
	sender   Sender
	resource Resource
	parse    func(*parser.Element) T
}

// NewEntityCommand returns the single entity commands of resource.
func NewEntityCommand[T any](s Sender, r Resource, parse func(*parser.Element) T) *EntityCommand[T] {
	return &EntityCommand[T]{sender: s, resource: r, parse: parse}
}

// Resource returns the addressed entity type.
func (c *EntityCommand[T]) Resource() Resource { return c.resource }

// Get fetches the entity with id.
func (c *EntityCommand[T]) Get(ctx context.Context, id string) (T, error) {
	return c.get(ctx, c.resource.params("get_"+c.resource.Name).Set(c.resource.idParam(), id))
}

func (c *EntityCommand[T]) get(ctx context.Context, p transport.Params) (T, error) {
	var zero T
	resp, err := c.sender.Get(ctx, p)
	if err != nil {
		return zero, err
	}
	el := entityElement(resp.Data, c.resource.Element)
	if el == nil {
		return zero, fmt.Errorf("%s %s: %w", c.resource.Type, p.Get(c.resource.idParam()), ErrNotFound)
	}
	return c.parse(el), nil
}

// Delete moves the entity into the trashcan.
func (c *EntityCommand[T]) Delete(ctx context.Context, id string) error {
	p := transport.NewParams("delete_"+c.resource.Name).Set(c.resource.idParam(), id)
	_, err := c.sender.Post(ctx, p)
	return err
}

// Clone copies the entity and returns the id of the copy.
func (c *EntityCommand[T]) Clone(ctx context.Context, id string) (string, error) {
	p := transport.NewParams("clone").
		Set("resource_type", c.resource.Name).
		Set("id", id)
	resp, err := c.sender.Post(ctx, p)
	if err != nil {
		return "", err
	}
	return actionID(resp)
}

// Export returns the XML export of the entity.
func (c *EntityCommand[T]) Export(ctx context.Context, id string) (*transport.Download, error) {
	return export(ctx, c.sender, c.resource, []string{id})
}

// EntitiesCommand runs the commands that address lists of entities.
type EntitiesCommand[T any] struct {
	sender   Sender
	resource Resource
	parse    func(*parser.Element) T
}

// NewEntitiesCommand returns the list commands of resource.
func NewEntitiesCommand[T any](s Sender, r Resource, parse func(*parser.Element) T) *EntitiesCommand[T] {
	return &EntitiesCommand[T]{sender: s, resource: r, parse: parse}
}

// Resource returns the addressed entity type.
func (c *EntitiesCommand[T]) Resource() Resource { return c.resource }

// Get fetches one page of entities matching f. A nil filter uses the
// default filter of the user.
func (c *EntitiesCommand[T]) Get(ctx context.Context, f *filter.Filter) (collection.Collection[T], error) {
	p := c.resource.params("get_" + model.PluralType(c.resource.Name))
	if f != nil {
		p.SetFilter(f.String())
		if f.IsSaved() {
			p.Set("filter_id", f.ID)
		}
	}

	resp, err := c.sender.Get(ctx, p)
	if err != nil {
		return collection.Collection[T]{}, err
	}
	return collection.Parse(resp.Data, c.resource.Element, c.resource.Plural, c.parse), nil
}

// GetAll fetches all entities matching f in one page.
func (c *EntitiesCommand[T]) GetAll(ctx context.Context, f *filter.Filter) (collection.Collection[T], error) {
	if f == nil {
		f = filter.New()
	}
	return c.Get(ctx, f.All())
}

// Count returns the counters for f without transferring the entities.
func (c *EntitiesCommand[T]) Count(ctx context.Context, f *filter.Filter) (collection.Counts, error) {
	if f == nil {
		f = filter.New()
	}
	q := f.Copy().SetInt(filter.KeywordFirst, 1).SetInt(filter.KeywordRows, 1)
	coll, err := c.Get(ctx, q)
	if err != nil {
		return collection.Counts{}, err
	}
	return coll.Counts, nil
}

// DeleteByIDs moves the entities with ids into the trashcan.
func (c *EntitiesCommand[T]) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	p := transport.NewParams("bulk_delete").
		Set("resource_type", c.resource.Name).
		SetIDs(ids)
	_, err := c.sender.Post(ctx, p)
	return err
}

// DeleteByFilter deletes all entities matching f and returns their ids.
func (c *EntitiesCommand[T]) DeleteByFilter(ctx context.Context, f *filter.Filter) ([]string, error) {
	coll, err := c.GetAll(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(coll.Entities))
	for _, e := range coll.Entities {
		if ent, ok := any(e).(model.Entity); ok && ent.GetID() != "" {
			ids = append(ids, ent.GetID())
		}
	}
	if err := c.DeleteByIDs(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ExportByIDs returns the XML export of the entities with ids.
func (c *EntitiesCommand[T]) ExportByIDs(ctx context.Context, ids []string) (*transport.Download, error) {
	return export(ctx, c.sender, c.resource, ids)
}

// ExportByFilter returns the XML export of all entities matching f.
func (c *EntitiesCommand[T]) ExportByFilter(ctx context.Context, f *filter.Filter) (*transport.Download, error) {
	if f == nil {
		f = filter.New()
	}
	p := transport.NewParams("bulk_export").
		Set("resource_type", c.resource.Name).
		SetBool("bulk_select", false).
		SetFilter(f.All().String())
	return c.sender.Download(ctx, http.MethodPost, p)
}

func export(ctx context.Context, s Sender, r Resource, ids []string) (*transport.Download, error) {
	p := transport.NewParams("bulk_export").
		Set("resource_type", r.Name).
		SetBool("bulk_select", true).
		SetIDs(ids)
	return s.Download(ctx, http.MethodPost, p)
}
