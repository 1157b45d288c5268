package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// ProjectService manages projects and their membership.
type ProjectService interface {
	CreateProject(ctx context.Context, userID uuid.UUID, name, description string) (*domain.Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	GetProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error)
	UpdateProject(ctx context.Context, userID, projectID uuid.UUID, name, description string) (*domain.Project, error)
	DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error

	AddMember(ctx context.Context, actorID, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	RemoveMember(ctx context.Context, actorID, projectID, userID uuid.UUID) error
	ListMembers(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.ProjectMember, error)
}

type projectServiceImpl struct {
	base
	db    *sql.DB
	cache MembershipCache
}

var _ ProjectService = (*projectServiceImpl)(nil)

// NewProjectService creates a ProjectService. cache may be nil.
func NewProjectService(
	db *sql.DB,
	projects store.ProjectStore,
	members store.MembershipStore,
	cache MembershipCache,
	notifier events.Notifier,
	logger *slog.Logger,
) (ProjectService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil: %w", domain.ErrValidation)
	}
	b, err := newBase(projects, members, notifier, logger, "project_service")
	if err != nil {
		return nil, err
	}
	return &projectServiceImpl{base: b, db: db, cache: cache}, nil
}

// CreateProject creates the project and its owner membership atomically.
func (s *projectServiceImpl) CreateProject(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*domain.Project, error) {
	project, err := domain.NewProject(userID, name, description)
	if err != nil {
		return nil, err
	}
	owner, err := domain.NewProjectMember(project.ID, userID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.projects.WithTx(tx).Create(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		if err := s.members.WithTx(tx).AddMember(ctx, owner); err != nil {
			return fmt.Errorf("add owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID, project.ID)
	s.publish(ctx, events.KindProject, events.ActionCreated, project.ID, userID, project.ID, project)
	return project, nil
}

func (s *projectServiceImpl) ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

func (s *projectServiceImpl) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	return s.requireMember(ctx, userID, projectID)
}

func (s *projectServiceImpl) UpdateProject(
	ctx context.Context,
	userID, projectID uuid.UUID,
	name, description string,
) (*domain.Project, error) {
	project, err := s.requireMember(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if err := project.Rename(name, description); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.publish(ctx, events.KindProject, events.ActionUpdated, project.ID, userID, project.ID, project)
	return project, nil
}

// DeleteProject is restricted to the owner.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	project, err := s.requireMember(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != userID {
		return ErrNotOwned
	}
	// Memberships cascade with the project, so capture them for cache invalidation first.
	members, err := s.members.ListMembers(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	for _, m := range members {
		s.invalidate(ctx, m.UserID, projectID)
	}

	s.publish(ctx, events.KindProject, events.ActionDeleted, projectID, userID, projectID,
		map[string]string{"id": projectID.String()})
	return nil
}

// AddMember is restricted to the owner.
func (s *projectServiceImpl) AddMember(
	ctx context.Context,
	actorID, projectID, userID uuid.UUID,
) (*domain.ProjectMember, error) {
	project, err := s.requireMember(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != actorID {
		return nil, ErrNotOwned
	}

	member, err := domain.NewProjectMember(projectID, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	if err := s.members.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	s.invalidate(ctx, userID, projectID)
	s.publish(ctx, events.KindProject, events.ActionUpdated, projectID, actorID, projectID, project)
	return member, nil
}

// RemoveMember lets the owner remove anyone but themselves, and lets a member leave.
func (s *projectServiceImpl) RemoveMember(ctx context.Context, actorID, projectID, userID uuid.UUID) error {
	project, err := s.requireMember(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if userID == project.OwnerID {
		return ErrOwnerMembership
	}
	if actorID != project.OwnerID && actorID != userID {
		return ErrNotOwned
	}
	if err := s.members.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	s.invalidate(ctx, userID, projectID)
	s.publish(ctx, events.KindProject, events.ActionUpdated, projectID, actorID, projectID, project)
	return nil
}

func (s *projectServiceImpl) ListMembers(
	ctx context.Context,
	userID, projectID uuid.UUID,
) ([]*domain.ProjectMember, error) {
	if _, err := s.requireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.members.ListMembers(ctx, projectID)
}

func (s *projectServiceImpl) invalidate(ctx context.Context, userID, projectID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID, projectID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to invalidate membership cache",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("project_id", projectID.String()))
	}
}
