package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
)

// ProjectStore defines the interface for project persistence.
type ProjectStore interface {
	// Create saves a new project. Returns ErrInvalidEntity if validation fails.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// ListForUser returns every project the user is a member of, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)

	// Update saves name and description. Returns ErrProjectNotFound if absent.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes the project and, by cascade, its members, tasks and notes.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ProjectStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProjectStore
}

// MembershipStore defines the interface for project membership persistence.
// IsMember is the existence check that gates realtime room access.
type MembershipStore interface {
	// AddMember returns ErrMemberExists when the user already belongs to the project.
	AddMember(ctx context.Context, member *domain.ProjectMember) error

	// RemoveMember returns ErrMemberNotFound when there was nothing to remove.
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error

	// ListMembers returns the members of a project, oldest first.
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)

	// GetMember returns ErrMemberNotFound when the user is not a member.
	GetMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)

	// IsMember reports whether userID belongs to projectID.
	IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error)

	// WithTx returns a MembershipStore bound to the given transaction.
	WithTx(tx *sql.Tx) MembershipStore
}
