package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// PostgresMembershipStore implements the store.MembershipStore interface.
type PostgresMembershipStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMembershipStore creates a membership store over a connection or transaction.
func NewPostgresMembershipStore(db store.DBTX, logger *slog.Logger) *PostgresMembershipStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMembershipStore{
		db:     db,
		logger: logger.With(slog.String("component", "membership_store")),
	}
}

var _ store.MembershipStore = (*PostgresMembershipStore)(nil)

func scanMember(row rowScanner) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	var role string
	if err := row.Scan(&m.ProjectID, &m.UserID, &role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Role = domain.MemberRole(role)
	return &m, nil
}

// AddMember implements store.MembershipStore.AddMember.
func (s *PostgresMembershipStore) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	if err := member.Validate(); err != nil {
		return invalidEntity("project member", "add", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)`,
		member.ProjectID, member.UserID, string(member.Role), member.CreatedAt,
	)
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return store.ErrMemberExists
	case IsForeignKeyViolation(err):
		return store.ErrProjectNotFound
	default:
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to add project member",
			slog.String("error", err.Error()),
			slog.String("project_id", member.ProjectID.String()),
			slog.String("user_id", member.UserID.String()))
		return MapError(err)
	}
}

// RemoveMember implements store.MembershipStore.RemoveMember.
func (s *PostgresMembershipStore) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrMemberNotFound)
}

// ListMembers implements store.MembershipStore.ListMembers.
func (s *PostgresMembershipStore) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, user_id, role, created_at
		FROM project_members
		WHERE project_id = $1
		ORDER BY created_at ASC`, projectID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	members := []*domain.ProjectMember{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, MapError(err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return members, nil
}

// GetMember implements store.MembershipStore.GetMember.
func (s *PostgresMembershipStore) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT project_id, user_id, role, created_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2`, projectID, userID)

	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMemberNotFound
		}
		return nil, MapError(err)
	}
	return m, nil
}

// IsMember implements store.MembershipStore.IsMember.
func (s *PostgresMembershipStore) IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2
		)`, projectID, userID).Scan(&exists)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("membership check failed",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}
	return exists, nil
}

// WithTx implements store.MembershipStore.WithTx.
func (s *PostgresMembershipStore) WithTx(tx *sql.Tx) store.MembershipStore {
	return &PostgresMembershipStore{db: tx, logger: s.logger}
}
