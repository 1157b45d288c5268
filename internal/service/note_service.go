package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// NoteService manages the notes of a project.
type NoteService interface {
	CreateNote(ctx context.Context, userID, projectID uuid.UUID, content string) (*domain.Note, error)
	ListNotes(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Note, error)
	GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)
	UpdateNote(ctx context.Context, userID, noteID uuid.UUID, content string) (*domain.Note, error)
	DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error
}

type noteServiceImpl struct {
	base
	notes store.NoteStore
}

var _ NoteService = (*noteServiceImpl)(nil)

// NewNoteService creates a NoteService.
func NewNoteService(
	notes store.NoteStore,
	projects store.ProjectStore,
	members store.MembershipStore,
	notifier events.Notifier,
	logger *slog.Logger,
) (NoteService, error) {
	if notes == nil {
		return nil, fmt.Errorf("note store cannot be nil: %w", domain.ErrValidation)
	}
	b, err := newBase(projects, members, notifier, logger, "note_service")
	if err != nil {
		return nil, err
	}
	return &noteServiceImpl{base: b, notes: notes}, nil
}

func (s *noteServiceImpl) CreateNote(
	ctx context.Context,
	userID, projectID uuid.UUID,
	content string,
) (*domain.Note, error) {
	if _, err := s.requireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}

	note, err := domain.NewNote(projectID, userID, content)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.publish(ctx, events.KindNote, events.ActionCreated, projectID, userID, note.ID, note)
	return note, nil
}

func (s *noteServiceImpl) ListNotes(ctx context.Context, userID, projectID uuid.UUID) ([]*domain.Note, error) {
	if _, err := s.requireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.notes.ListByProject(ctx, projectID)
}

// GetNote requires membership in the note's project.
func (s *noteServiceImpl) GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, userID, note.ProjectID); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote is allowed for the note's author only.
func (s *noteServiceImpl) UpdateNote(
	ctx context.Context,
	userID, noteID uuid.UUID,
	content string,
) (*domain.Note, error) {
	note, err := s.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != userID {
		return nil, ErrNotOwned
	}
	if err := note.Edit(content); err != nil {
		return nil, err
	}
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	s.publish(ctx, events.KindNote, events.ActionUpdated, note.ProjectID, userID, note.ID, note)
	return note, nil
}

// DeleteNote is allowed for the note's author and the project owner.
func (s *noteServiceImpl) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	project, err := s.requireMember(ctx, userID, note.ProjectID)
	if err != nil {
		return err
	}
	if note.AuthorID != userID && project.OwnerID != userID {
		return ErrNotOwned
	}
	if err := s.notes.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.publish(ctx, events.KindNote, events.ActionDeleted, note.ProjectID, userID, note.ID,
		map[string]string{"id": note.ID.String(), "projectId": note.ProjectID.String()})
	return nil
}
