package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task. Returns ErrInvalidEntity if validation fails.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByProject returns the project's tasks, newest first.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)

	// Update saves every mutable field. Returns ErrTaskNotFound if absent.
	Update(ctx context.Context, task *domain.Task) error

	// Delete returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// NoteStore defines the interface for note persistence.
type NoteStore interface {
	// Create saves a new note. Returns ErrInvalidEntity if validation fails.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// ListByProject returns the project's notes, newest first.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Note, error)

	// Update saves content changes. Returns ErrNoteNotFound if the note does not exist.
	Update(ctx context.Context, note *domain.Note) error

	// Delete returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a NoteStore bound to the given transaction.
	WithTx(tx *sql.Tx) NoteStore
}
