package notes

import (
	"context"

	"github.com/pkg/errors"
)

// taskService implements the TaskService interface
type taskService struct {
	resource
}

// List retrieves tasks
func (s *taskService) List(ctx context.Context, params *ListParams) (*TaskList, error) {
	raw, err := s.list(ctx, params.Values())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tasks")
	}
	return decodeTaskList(raw)
}

// Get retrieves a single task by ID
func (s *taskService) Get(ctx context.Context, taskID int64) (*Task, error) {
	var task Task
	if err := s.get(ctx, taskID, &task); err != nil {
		return nil, errors.Wrapf(err, "failed to get task %d", taskID)
	}
	return &task, nil
}

// Create creates a new task
func (s *taskService) Create(ctx context.Context, params *CreateTaskParams) (*Task, error) {
	if params == nil {
		return nil, errors.New("task params are required")
	}

	var task Task
	if err := s.create(ctx, params, &task); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}
	return &task, nil
}

// Update partially updates a task
func (s *taskService) Update(ctx context.Context, taskID int64, params *UpdateTaskParams) (*Task, error) {
	if params == nil {
		params = &UpdateTaskParams{}
	}

	var task Task
	if err := s.update(ctx, taskID, params, &task); err != nil {
		return nil, errors.Wrapf(err, "failed to update task %d", taskID)
	}
	return &task, nil
}

// Delete deletes a task
func (s *taskService) Delete(ctx context.Context, taskID int64) error {
	if err := s.delete(ctx, taskID); err != nil {
		return errors.Wrapf(err, "failed to delete task %d", taskID)
	}
	return nil
}

// Search retrieves tasks matching query
func (s *taskService) Search(ctx context.Context, query string) (*TaskList, error) {
	raw, err := s.search(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search tasks")
	}
	return decodeTaskList(raw)
}

// Analyze requests an analysis of a task
func (s *taskService) Analyze(ctx context.Context, taskID int64) (*Analysis, error) {
	var analysis Analysis
	if err := s.analyze(ctx, taskID, &analysis); err != nil {
		return nil, errors.Wrapf(err, "failed to analyze task %d", taskID)
	}
	return &analysis, nil
}

func decodeTaskList(raw []byte) (*TaskList, error) {
	p, err := decodePage[*Task](raw)
	if err != nil {
		return nil, err
	}
	return &TaskList{
		Count:    p.Count,
		Next:     p.Next,
		Previous: p.Previous,
		Tasks:    p.Results,
	}, nil
}
