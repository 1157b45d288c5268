package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// TaskInput carries the fields of a new task. Empty Status and Priority take defaults.
type TaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// TaskUpdate carries a partial update; nil fields are left unchanged.
// An AssigneeID of uuid.Nil and a zero DueDate clear those fields.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// TaskService manages the tasks of a project.
type TaskService interface {
	CreateTask(ctx context.Context, userID, projectID uuid.UUID, input TaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	base
	tasks store.TaskStore
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService.
func NewTaskService(
	tasks store.TaskStore,
	projects store.ProjectStore,
	members store.MembershipStore,
	notifier events.Notifier,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil: %w", domain.ErrValidation)
	}
	b, err := newBase(projects, members, notifier, logger, "task_service")
	if err != nil {
		return nil, err
	}
	return &taskServiceImpl{base: b, tasks: tasks}, nil
}

func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID, projectID uuid.UUID,
	input TaskInput,
) (*domain.Task, error) {
	if _, err := s.requireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(projectID, userID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.DueDate = input.DueDate
	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, projectID, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.publish(ctx, events.KindTask, events.ActionCreated, projectID, userID, task.ID, task)
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Task, error) {
	if _, err := s.requireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// GetTask hides tasks of foreign projects behind ErrForbidden.
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, userID, task.ProjectID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update TaskUpdate,
) (*domain.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.AssigneeID != nil {
		if *update.AssigneeID == uuid.Nil {
			task.AssigneeID = nil
		} else {
			if err := s.checkAssignee(ctx, task.ProjectID, *update.AssigneeID); err != nil {
				return nil, err
			}
			assignee := *update.AssigneeID
			task.AssigneeID = &assignee
		}
	}
	if update.DueDate != nil {
		if update.DueDate.IsZero() {
			task.DueDate = nil
		} else {
			due := update.DueDate.UTC()
			task.DueDate = &due
		}
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	task.Touch()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.publish(ctx, events.KindTask, events.ActionUpdated, task.ProjectID, userID, task.ID, task)
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.publish(ctx, events.KindTask, events.ActionDeleted, task.ProjectID, userID, task.ID,
		map[string]string{"id": task.ID.String(), "projectId": task.ProjectID.String()})
	return nil
}

func (s *taskServiceImpl) checkAssignee(ctx context.Context, projectID, assigneeID uuid.UUID) error {
	ok, err := s.members.IsMember(ctx, assigneeID, projectID)
	if err != nil {
		return fmt.Errorf("check assignee membership: %w", err)
	}
	if !ok {
		return ErrInvalidAssignee
	}
	return nil
}
