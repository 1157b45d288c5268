package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// PostgresNoteStore implements the store.NoteStore interface.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a note store over a connection or transaction.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

var _ store.NoteStore = (*PostgresNoteStore)(nil)

const noteColumns = `id, project_id, author_id, content, created_at, updated_at`

func scanNote(row rowScanner) (*domain.Note, error) {
	var n domain.Note
	if err := row.Scan(&n.ID, &n.ProjectID, &n.AuthorID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create implements store.NoteStore.Create.
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	if err := note.Validate(); err != nil {
		return invalidEntity("note", "create", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		note.ID, note.ProjectID, note.AuthorID, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrProjectNotFound
		}
		return MapError(err)
	}
	return nil
}

// GetByID implements store.NoteStore.GetByID.
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	n, err := scanNote(s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		return nil, MapError(err)
	}
	return n, nil
}

// ListByProject implements store.NoteStore.ListByProject.
func (s *PostgresNoteStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE project_id = $1
		ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	notes := []*domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, MapError(err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return notes, nil
}

// Update implements store.NoteStore.Update.
func (s *PostgresNoteStore) Update(ctx context.Context, note *domain.Note) error {
	if err := note.Validate(); err != nil {
		return invalidEntity("note", "update", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE notes
		SET content = $1, updated_at = $2
		WHERE id = $3`,
		note.Content, note.UpdatedAt, note.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrNoteNotFound)
}

// Delete implements store.NoteStore.Delete.
func (s *PostgresNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrNoteNotFound)
}

// WithTx implements store.NoteStore.WithTx.
func (s *PostgresNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &PostgresNoteStore{db: tx, logger: s.logger}
}
