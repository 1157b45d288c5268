package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is free-form text attached to a project.
type Note struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a validated note.
func NewNote(projectID, authorID uuid.UUID, content string) (*Note, error) {
	now := time.Now().UTC()
	n := &Note{
		ID:        uuid.New(),
		ProjectID: projectID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return invalid("id", ErrInvalidID)
	}
	if n.ProjectID == uuid.Nil {
		return invalid("project_id", ErrInvalidID)
	}
	if n.AuthorID == uuid.Nil {
		return invalid("author_id", ErrInvalidID)
	}
	if strings.TrimSpace(n.Content) == "" {
		return invalid("content", ErrEmptyContent)
	}
	return nil
}

// Edit replaces the content and bumps UpdatedAt.
func (n *Note) Edit(content string) error {
	if strings.TrimSpace(content) == "" {
		return invalid("content", ErrEmptyContent)
	}
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	return nil
}
