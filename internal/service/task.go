package service

import (
	"context"

	"gsa/internal/gmp/command"
)

// TaskService runs the scan task use cases.
type TaskService interface {
	// Start launches a scan and returns the id of the new report.
	Start(ctx context.Context, id string) (string, error)
	Stop(ctx context.Context, id string) error
	// Resume continues a stopped scan and returns the report id.
	Resume(ctx context.Context, id string) (string, error)
	// Create validates p and creates a task, returning its id.
	Create(ctx context.Context, p command.TaskParams) (string, error)
	Save(ctx context.Context, id string, p command.TaskParams) error
}

type taskService struct {
	tasks     *command.TaskCommand
	validator Validator
}

// NewTaskService constructs a TaskService sending through s.
func NewTaskService(s command.Sender, v Validator) TaskService {
	return &taskService{tasks: command.NewTaskCommand(s), validator: v}
}

func (s *taskService) Start(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	return s.tasks.Start(ctx, id)
}

func (s *taskService) Stop(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.tasks.Stop(ctx, id)
}

func (s *taskService) Resume(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	return s.tasks.Resume(ctx, id)
}

func (s *taskService) Create(ctx context.Context, p command.TaskParams) (string, error) {
	if err := validate(s.validator, p); err != nil {
		return "", err
	}
	return s.tasks.Create(ctx, p)
}

func (s *taskService) Save(ctx context.Context, id string, p command.TaskParams) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := validate(s.validator, p); err != nil {
		return err
	}
	return s.tasks.Save(ctx, id, p)
}
