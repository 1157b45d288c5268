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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresProjectStore implements the store.ProjectStore interface.
type PostgresProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProjectStore creates a project store over a connection or transaction.
// If logger is nil, the default logger is used.
func NewPostgresProjectStore(db store.DBTX, logger *slog.Logger) *PostgresProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

var _ store.ProjectStore = (*PostgresProjectStore)(nil)

const projectColumns = `p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at`

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create implements store.ProjectStore.Create.
func (s *PostgresProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return invalidEntity("project", "create", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		project.ID, project.OwnerID, project.Name, project.Description,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return MapError(err)
	}

	log.Debug("project created", slog.String("project_id", project.ID.String()))
	return nil
}

// GetByID implements store.ProjectStore.GetByID.
func (s *PostgresProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, MapError(err)
	}
	return p, nil
}

// ListForUser implements store.ProjectStore.ListForUser.
func (s *PostgresProjectStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, MapError(err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return projects, nil
}

// Update implements store.ProjectStore.Update.
func (s *PostgresProjectStore) Update(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return invalidEntity("project", "update", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = $1, description = $2, updated_at = $3
		WHERE id = $4`,
		project.Name, project.Description, project.UpdatedAt, project.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrProjectNotFound)
}

// Delete implements store.ProjectStore.Delete.
func (s *PostgresProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrProjectNotFound)
}

// WithTx implements store.ProjectStore.WithTx.
func (s *PostgresProjectStore) WithTx(tx *sql.Tx) store.ProjectStore {
	return &PostgresProjectStore{db: tx, logger: s.logger}
}
