package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTaskTitleLength bounds Task.Title in runes.
const MaxTaskTitleLength = 500

// TaskStatus represents where a task is in its workflow
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority orders tasks within a project
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a unit of work inside a project.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"project_id"`
	CreatorID   uuid.UUID    `json:"creator_id"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a validated task in the todo state with medium priority.
func NewTask(projectID, creatorID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		CreatorID:   creatorID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      TaskStatusTodo,
		Priority:    TaskPriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return invalid("id", ErrInvalidID)
	}
	if t.ProjectID == uuid.Nil {
		return invalid("project_id", ErrInvalidID)
	}
	if t.CreatorID == uuid.Nil {
		return invalid("creator_id", ErrInvalidID)
	}
	if t.AssigneeID != nil && *t.AssigneeID == uuid.Nil {
		return invalid("assignee_id", ErrInvalidID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", ErrEmptyContent)
	}
	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return invalid("title", ErrTooLong)
	}
	if !t.Status.Valid() {
		return invalid("status", ErrInvalidTaskStatus)
	}
	if !t.Priority.Valid() {
		return invalid("priority", ErrInvalidTaskPriority)
	}
	return nil
}

// Touch bumps UpdatedAt after a mutation.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}
