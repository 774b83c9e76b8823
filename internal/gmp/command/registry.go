package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gsa/internal/gmp/collection"
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/model"
	"gsa/internal/gmp/parser"
	"gsa/internal/gmp/transport"
)

var (
	taskResource          = Resource{Type: "task", Name: "task", Element: "task", Plural: "tasks"}
	reportResource        = Resource{Type: "report", Name: "report", Element: "report", Plural: "reports"}
	resultResource        = Resource{Type: "result", Name: "result", Element: "result", Plural: "results"}
	hostResource          = Resource{Type: "host", Name: "asset", Element: "asset", Plural: "assets", Extra: map[string]string{"asset_type": "host"}}
	vulnerabilityResource = Resource{Type: "vulnerability", Name: "vuln", Element: "vuln", Plural: "vulns"}
	credentialResource    = Resource{Type: "credential", Name: "credential", Element: "credential", Plural: "credentials"}
	tagResource           = Resource{Type: "tag", Name: "tag", Element: "tag", Plural: "tags"}
	filterResource        = Resource{Type: "filter", Name: "filter", Element: "filter", Plural: "filters"}
	userResource          = Resource{Type: "user", Name: "user", Element: "user", Plural: "users"}
	roleResource          = Resource{Type: "role", Name: "role", Element: "role", Plural: "roles"}
	groupResource         = Resource{Type: "group", Name: "group", Element: "group", Plural: "groups"}
	permissionResource    = Resource{Type: "permission", Name: "permission", Element: "permission", Plural: "permissions"}
	targetResource        = Resource{Type: "target", Name: "target", Element: "target", Plural: "targets"}
	portListResource      = Resource{Type: "portlist", Name: "port_list", Element: "port_list", Plural: "port_lists"}
	scannerResource       = Resource{Type: "scanner", Name: "scanner", Element: "scanner", Plural: "scanners"}
	scheduleResource      = Resource{Type: "schedule", Name: "schedule", Element: "schedule", Plural: "schedules"}
	nvtResource           = infoResource("nvt")
	cveResource           = infoResource("cve")
	cpeResource           = infoResource("cpe")
)

// SecInfo types are served by get_info.
func infoResource(infoType string) Resource {
	return Resource{
		Type:    infoType,
		Name:    "info",
		Element: "info",
		Plural:  "info",
		Extra:   map[string]string{"info_type": infoType},
	}
}

// Generic runs the common commands of an entity type without knowing its
// model. Entities are returned as their typed model boxed in any.
type Generic interface {
	Resource() Resource
	Get(ctx context.Context, id string) (any, error)
	List(ctx context.Context, f *filter.Filter) (collection.Collection[any], error)
	Count(ctx context.Context, f *filter.Filter) (collection.Counts, error)
	Delete(ctx context.Context, id string) error
	Clone(ctx context.Context, id string) (string, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByFilter(ctx context.Context, f *filter.Filter) ([]string, error)
	Export(ctx context.Context, ids []string) (*transport.Download, error)
	ExportByFilter(ctx context.Context, f *filter.Filter) (*transport.Download, error)
}

type typed[T any] struct {
	*EntityCommand[T]
	list *EntitiesCommand[T]
}

func newTyped[T any](s Sender, r Resource, parse func(*parser.Element) T) Generic {
	return typed[T]{
		EntityCommand: NewEntityCommand(s, r, parse),
		list:          NewEntitiesCommand(s, r, parse),
	}
}

func (t typed[T]) Get(ctx context.Context, id string) (any, error) {
	e, err := t.EntityCommand.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (t typed[T]) List(ctx context.Context, f *filter.Filter) (collection.Collection[any], error) {
	c, err := t.list.Get(ctx, f)
	if err != nil {
		return collection.Collection[any]{}, err
	}
	out := collection.Collection[any]{
		Entities:  make([]any, len(c.Entities)),
		Filter:    c.Filter,
		Counts:    c.Counts,
		SortField: c.SortField,
		SortOrder: c.SortOrder,
	}
	for i, e := range c.Entities {
		out.Entities[i] = e
	}
	return out, nil
}

func (t typed[T]) Count(ctx context.Context, f *filter.Filter) (collection.Counts, error) {
	return t.list.Count(ctx, f)
}

func (t typed[T]) DeleteByIDs(ctx context.Context, ids []string) error {
	return t.list.DeleteByIDs(ctx, ids)
}

func (t typed[T]) DeleteByFilter(ctx context.Context, f *filter.Filter) ([]string, error) {
	return t.list.DeleteByFilter(ctx, f)
}

func (t typed[T]) Export(ctx context.Context, ids []string) (*transport.Download, error) {
	return t.list.ExportByIDs(ctx, ids)
}

func (t typed[T]) ExportByFilter(ctx context.Context, f *filter.Filter) (*transport.Download, error) {
	return t.list.ExportByFilter(ctx, f)
}

// Registry maps entity types to their commands.
type Registry struct {
	commands map[string]Generic
}

// NewRegistry registers the commands of all supported entity types.
func NewRegistry(s Sender) *Registry {
	info := func(t string) func(*parser.Element) model.Model {
		return func(el *parser.Element) model.Model { return model.ParseModel(el, t) }
	}

	r := &Registry{commands: map[string]Generic{}}
	for _, g := range []Generic{
		newTyped(s, taskResource, model.NewTaskFromElement),
		newTyped(s, reportResource, model.NewReportFromElement),
		newTyped(s, resultResource, model.NewResultFromElement),
		newTyped(s, hostResource, model.NewHostFromElement),
		newTyped(s, vulnerabilityResource, model.NewVulnerabilityFromElement),
		newTyped(s, credentialResource, model.NewCredentialFromElement),
		newTyped(s, tagResource, model.NewTagFromElement),
		newTyped(s, filterResource, model.NewFilterFromElement),
		newTyped(s, userResource, model.NewUserFromElement),
		newTyped(s, roleResource, model.NewRoleFromElement),
		newTyped(s, groupResource, model.NewGroupFromElement),
		newTyped(s, permissionResource, model.NewPermissionFromElement),
		newTyped(s, targetResource, model.NewTargetFromElement),
		newTyped(s, portListResource, model.NewPortListFromElement),
		newTyped(s, scannerResource, model.NewScannerFromElement),
		newTyped(s, scheduleResource, model.NewScheduleFromElement),
		newTyped(s, nvtResource, model.NewNvtFromElement),
		newTyped(s, cveResource, info("cve")),
		newTyped(s, cpeResource, info("cpe")),
	} {
		r.commands[g.Resource().Type] = g
	}
	return r
}

// Lookup returns the commands of entityType. GMP spellings such as
// "port_list" or "vuln" are accepted.
func (r *Registry) Lookup(entityType string) (Generic, error) {
	t := model.NormalizeType(strings.TrimSpace(entityType))
	if t == "asset" {
		t = "host"
	}
	g, ok := r.commands[t]
	if !ok {
		return nil, fmt.Errorf("%q: %w", entityType, ErrUnknownType)
	}
	return g, nil
}

// Types returns the registered entity types in alphabetical order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.commands))
	for t := range r.commands {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
