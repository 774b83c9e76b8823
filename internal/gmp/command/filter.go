package command

import (
	"context"

	"gsa/internal/gmp/model"
	"gsa/internal/gmp/transport"
)

// FilterParams are the settings of a saved filter.
type FilterParams struct {
	Name         string `json:"name" validate:"required,max=255"`
	Comment      string `json:"comment,omitempty"`
	Term         string `json:"term"`
	ResourceType string `json:"resource_type,omitempty"`
}

func (f FilterParams) apply(p transport.Params) transport.Params {
	return p.Set("name", f.Name).
		Set("comment", f.Comment).
		Set("term", f.Term).
		Set("resource_type", model.ApiType(f.ResourceType))
}

// FilterCommand runs the saved filter commands.
type FilterCommand struct {
	*EntityCommand[model.Filter]
}

// NewFilterCommand returns the saved filter commands.
func NewFilterCommand(s Sender) *FilterCommand {
	return &FilterCommand{NewEntityCommand(s, filterResource, model.NewFilterFromElement)}
}

// Create saves a new filter and returns its id.
func (c *FilterCommand) Create(ctx context.Context, f FilterParams) (string, error) {
	resp, err := c.sender.Post(ctx, f.apply(transport.NewParams("create_filter")))
	if err != nil {
		return "", err
	}
	return actionID(resp)
}

// Save modifies the filter with id.
func (c *FilterCommand) Save(ctx context.Context, id string, f FilterParams) error {
	_, err := c.sender.Post(ctx, f.apply(transport.NewParams("save_filter").Set("filter_id", id)))
	return err
}
