package command

import (
	"context"

	"gsa/internal/gmp/model"
	"gsa/internal/gmp/transport"
)

// TagParams are the settings of a tag.
type TagParams struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Comment      string   `json:"comment,omitempty"`
	Value        string   `json:"value,omitempty"`
	Active       bool     `json:"active"`
	ResourceType string   `json:"resource_type" validate:"required"`
	ResourceIDs  []string `json:"resource_ids,omitempty"`
}

func (t TagParams) apply(p transport.Params) transport.Params {
	return p.Set("tag_name", t.Name).
		Set("comment", t.Comment).
		Set("tag_value", t.Value).
		SetBool("active", t.Active).
		Set("resource_type", model.ApiType(t.ResourceType)).
		SetList("resource_ids", t.ResourceIDs)
}

// TagCommand runs the tag commands.
type TagCommand struct {
	*EntityCommand[model.Tag]
}

// NewTagCommand returns the tag commands.
func NewTagCommand(s Sender) *TagCommand {
	return &TagCommand{NewEntityCommand(s, tagResource, model.NewTagFromElement)}
}

// Create creates a tag and returns its id.
func (c *TagCommand) Create(ctx context.Context, t TagParams) (string, error) {
	resp, err := c.sender.Post(ctx, t.apply(transport.NewParams("create_tag")))
	if err != nil {
		return "", err
	}
	return actionID(resp)
}

// Save modifies the tag with id, replacing its resources.
func (c *TagCommand) Save(ctx context.Context, id string, t TagParams) error {
	p := t.apply(transport.NewParams("save_tag").Set("tag_id", id)).Set("resource_action", "set")
	_, err := c.sender.Post(ctx, p)
	return err
}

// AddResources attaches the tag to more resources of its type.
func (c *TagCommand) AddResources(ctx context.Context, id, resourceType string, ids []string) error {
	return c.changeResources(ctx, id, resourceType, ids, "add")
}

// RemoveResources detaches the tag from resources.
func (c *TagCommand) RemoveResources(ctx context.Context, id, resourceType string, ids []string) error {
	return c.changeResources(ctx, id, resourceType, ids, "remove")
}

func (c *TagCommand) changeResources(ctx context.Context, id, resourceType string, ids []string, action string) error {
	tag, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	p := transport.NewParams("save_tag").
		Set("tag_id", id).
		Set("tag_name", tag.Name).
		Set("comment", tag.Comment).
		Set("tag_value", tag.Value).
		SetBool("active", tag.Active).
		Set("resource_type", model.ApiType(resourceType)).
		Set("resource_action", action).
		SetList("resource_ids", ids)
	_, err = c.sender.Post(ctx, p)
	return err
}
