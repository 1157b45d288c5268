package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// MembershipCache is invalidated whenever membership changes.
type MembershipCache interface {
	Invalidate(ctx context.Context, userID, projectID uuid.UUID) error
}

// base holds what every service needs: membership lookups and the notify port.
type base struct {
	projects store.ProjectStore
	members  store.MembershipStore
	notifier events.Notifier
	logger   *slog.Logger
}

func newBase(
	projects store.ProjectStore,
	members store.MembershipStore,
	notifier events.Notifier,
	logger *slog.Logger,
	component string,
) (base, error) {
	if projects == nil {
		return base{}, fmt.Errorf("projects store cannot be nil: %w", domain.ErrValidation)
	}
	if members == nil {
		return base{}, fmt.Errorf("membership store cannot be nil: %w", domain.ErrValidation)
	}
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		projects: projects,
		members:  members,
		notifier: notifier,
		logger:   logger.With(slog.String("component", component)),
	}, nil
}

// requireMember loads the project and fails with ErrForbidden unless userID belongs to it.
func (b base) requireMember(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	project, err := b.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ok, err := b.members.IsMember(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !ok {
		logger.FromContextOrDefault(ctx, b.logger).Debug("membership check denied",
			slog.String("user_id", userID.String()),
			slog.String("project_id", projectID.String()))
		return nil, ErrForbidden
	}
	return project, nil
}

// publish builds and sends an entity event. Serialization failures are logged only.
func (b base) publish(
	ctx context.Context,
	kind events.Kind,
	action events.Action,
	projectID, actorID, entityID uuid.UUID,
	payload any,
) {
	event, err := events.NewEntityEvent(kind, action, projectID, actorID, entityID, payload)
	if err != nil {
		logger.FromContextOrDefault(ctx, b.logger).Error("failed to build entity event",
			slog.String("error", err.Error()),
			slog.String("kind", string(kind)),
			slog.String("action", string(action)))
		return
	}
	b.notifier.Notify(ctx, event)
}
