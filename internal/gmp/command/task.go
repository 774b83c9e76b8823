package command

import (
	"context"

	"gsa/internal/gmp/model"
	"gsa/internal/gmp/transport"
)

// TaskParams are the settings of create_task and save_task.
type TaskParams struct {
	Name           string   `json:"name" validate:"required,max=255"`
	Comment        string   `json:"comment,omitempty" validate:"max=4000"`
	TargetID       string   `json:"target_id" validate:"required"`
	ConfigID       string   `json:"config_id" validate:"required"`
	ScannerID      string   `json:"scanner_id" validate:"required"`
	ScheduleID     string   `json:"schedule_id,omitempty"`
	AlertIDs       []string `json:"alert_ids,omitempty"`
	HostsOrdering  string   `json:"hosts_ordering,omitempty" validate:"omitempty,oneof=sequential random reverse"`
	MaxChecks      int      `json:"max_checks,omitempty" validate:"gte=0"`
	MaxHosts       int      `json:"max_hosts,omitempty" validate:"gte=0"`
	MinQod         int      `json:"min_qod,omitempty" validate:"gte=0,lte=100"`
	AutoDelete     int      `json:"auto_delete_data,omitempty" validate:"gte=0,lte=1200"`
	Alterable      bool     `json:"alterable"`
	InAssets       bool     `json:"in_assets"`
	ApplyOverrides bool     `json:"apply_overrides"`
}

func (t TaskParams) apply(p transport.Params) transport.Params {
	p.Set("name", t.Name).
		Set("comment", t.Comment).
		Set("target_id", t.TargetID).
		Set("config_id", t.ConfigID).
		Set("scanner_id", t.ScannerID).
		SetIf("schedule_id", t.ScheduleID).
		SetIf("hosts_ordering", t.HostsOrdering).
		SetBool("alterable", t.Alterable).
		SetBool("in_assets", t.InAssets).
		SetBool("apply_overrides", t.ApplyOverrides).
		SetList("alert_ids", t.AlertIDs)
	if t.MaxChecks > 0 {
		p.SetInt("max_checks", t.MaxChecks)
	}
	if t.MaxHosts > 0 {
		p.SetInt("max_hosts", t.MaxHosts)
	}
	if t.MinQod > 0 {
		p.SetInt("min_qod", t.MinQod)
	}
	if t.AutoDelete > 0 {
		p.Set("auto_delete", "keep").SetInt("auto_delete_data", t.AutoDelete)
	} else {
		p.Set("auto_delete", "no")
	}
	return p
}

// TaskCommand runs the task commands.
type TaskCommand struct {
	*EntityCommand[model.Task]
}

// NewTaskCommand returns the task commands.
func NewTaskCommand(s Sender) *TaskCommand {
	return &TaskCommand{NewEntityCommand(s, taskResource, model.NewTaskFromElement)}
}

// Start starts a scan and returns the id of the new report.
func (c *TaskCommand) Start(ctx context.Context, id string) (string, error) {
	return c.action(ctx, "start_task", id)
}

// Stop stops the running scan of the task.
func (c *TaskCommand) Stop(ctx context.Context, id string) error {
	_, err := c.action(ctx, "stop_task", id)
	return err
}

// Resume continues a stopped or interrupted scan and returns the report id.
func (c *TaskCommand) Resume(ctx context.Context, id string) (string, error) {
	return c.action(ctx, "resume_task", id)
}

func (c *TaskCommand) action(ctx context.Context, cmd, id string) (string, error) {
	resp, err := c.sender.Post(ctx, transport.NewParams(cmd).Set("task_id", id))
	if err != nil {
		return "", err
	}
	// stop_task answers without an id
	reportID, _ := actionID(resp)
	return reportID, nil
}

// Create creates a scan task and returns its id.
func (c *TaskCommand) Create(ctx context.Context, t TaskParams) (string, error) {
	p := t.apply(transport.NewParams("create_task").Set("usage_type", model.UsageTypeScan))
	resp, err := c.sender.Post(ctx, p)
	if err != nil {
		return "", err
	}
	return actionID(resp)
}

// CreateContainer creates a task holding imported reports only.
func (c *TaskCommand) CreateContainer(ctx context.Context, name, comment string) (string, error) {
	p := transport.NewParams("create_container_task").
		Set("name", name).
		Set("comment", comment)
	resp, err := c.sender.Post(ctx, p)
	if err != nil {
		return "", err
	}
	return actionID(resp)
}

// Save modifies the task with id.
func (c *TaskCommand) Save(ctx context.Context, id string, t TaskParams) error {
	p := t.apply(transport.NewParams("save_task").Set("task_id", id))
	_, err := c.sender.Post(ctx, p)
	return err
}

// TasksCommand runs the task list commands.
type TasksCommand struct {
	*EntitiesCommand[model.Task]
}

// NewTasksCommand returns the task list commands.
func NewTasksCommand(s Sender) *TasksCommand {
	return &TasksCommand{NewEntitiesCommand(s, taskResource, model.NewTaskFromElement)}
}
