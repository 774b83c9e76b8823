package service

import (
	"context"

	"gsa/internal/gmp/collection"
	"gsa/internal/gmp/command"
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/transport"
)

// EntityList is one page of entities of a type.
type EntityList struct {
	Type      string            `json:"type"`
	Items     []any             `json:"data"`
	Filter    string            `json:"filter"`
	Counts    collection.Counts `json:"counts"`
	SortField string            `json:"sort_field,omitempty"`
	SortOrder string            `json:"sort_order,omitempty"`
	// Next and Previous are the filters of the neighbouring pages.
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// BulkRequest selects entities by ids or, without ids, by filter.
type BulkRequest struct {
	IDs    []string `json:"ids"`
	Filter string   `json:"filter"`
}

// EntityService runs the commands shared by all entity types.
type EntityService interface {
	// Types returns the supported entity types.
	Types() []string
	// List returns the page of entities of entityType selected by term.
	List(ctx context.Context, entityType, term string) (*EntityList, error)
	Get(ctx context.Context, entityType, id string) (any, error)
	Delete(ctx context.Context, entityType, id string) error
	// Clone copies an entity and returns the id of the copy.
	Clone(ctx context.Context, entityType, id string) (string, error)
	// BulkDelete deletes the selected entities and returns their ids.
	BulkDelete(ctx context.Context, entityType string, req BulkRequest) ([]string, error)
	// Export returns the XML export of the selected entities.
	Export(ctx context.Context, entityType string, req BulkRequest) (*transport.Download, error)
}

type entityService struct {
	registry *command.Registry
}

// NewEntityService constructs an EntityService over the registered commands.
func NewEntityService(reg *command.Registry) EntityService {
	return &entityService{registry: reg}
}

func (s *entityService) Types() []string { return s.registry.Types() }

func (s *entityService) List(ctx context.Context, entityType, term string) (*EntityList, error) {
	cmd, err := s.registry.Lookup(entityType)
	if err != nil {
		return nil, err
	}

	var f *filter.Filter
	if term != "" {
		f = filter.Parse(term)
	}
	coll, err := cmd.List(ctx, f)
	if err != nil {
		return nil, err
	}

	// gvmd echoes the applied filter including the user's defaults
	applied := coll.Filter
	if applied.IsEmpty() && f != nil {
		applied = f
	}
	if applied == nil {
		applied = filter.New()
	}
	if applied.Rows() == 0 && coll.Counts.Rows > 0 {
		applied = applied.Copy().SetInt(filter.KeywordRows, coll.Counts.Rows)
	}
	if !applied.Has(filter.KeywordFirst) {
		applied = applied.Copy().SetInt(filter.KeywordFirst, coll.Counts.First)
	}

	out := &EntityList{
		Type:      cmd.Resource().Type,
		Items:     coll.Entities,
		Filter:    applied.String(),
		Counts:    coll.Counts,
		SortField: coll.SortField,
		SortOrder: coll.SortOrder,
	}
	if coll.Counts.HasNext() {
		out.Next = applied.Next().String()
	}
	if coll.Counts.HasPrevious() {
		out.Previous = applied.Previous().String()
	}
	return out, nil
}

func (s *entityService) Get(ctx context.Context, entityType, id string) (any, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	cmd, err := s.registry.Lookup(entityType)
	if err != nil {
		return nil, err
	}
	return cmd.Get(ctx, id)
}

func (s *entityService) Delete(ctx context.Context, entityType, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	cmd, err := s.registry.Lookup(entityType)
	if err != nil {
		return err
	}
	return cmd.Delete(ctx, id)
}

func (s *entityService) Clone(ctx context.Context, entityType, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	cmd, err := s.registry.Lookup(entityType)
	if err != nil {
		return "", err
	}
	return cmd.Clone(ctx, id)
}

func (s *entityService) BulkDelete(ctx context.Context, entityType string, req BulkRequest) ([]string, error) {
	cmd, err := s.registry.Lookup(entityType)
	if err != nil {
		return nil, err
	}
	switch {
	case len(req.IDs) > 0:
		if err := cmd.DeleteByIDs(ctx, req.IDs); err != nil {
			return nil, err
		}
		return req.IDs, nil
	case req.Filter != "":
		return cmd.DeleteByFilter(ctx, filter.Parse(req.Filter))
	default:
		return nil, ErrNothingToDo
	}
}

func (s *entityService) Export(ctx context.Context, entityType string, req BulkRequest) (*transport.Download, error) {
	cmd, err := s.registry.Lookup(entityType)
	if err != nil {
		return nil, err
	}
	switch {
	case len(req.IDs) > 0:
		return cmd.Export(ctx, req.IDs)
	case req.Filter != "":
		return cmd.ExportByFilter(ctx, filter.Parse(req.Filter))
	default:
		return nil, ErrNothingToDo
	}
}
