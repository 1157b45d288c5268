package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxProjectNameLength bounds Project.Name in runes.
const MaxProjectNameLength = 200

// MemberRole is a user's role within a project.
type MemberRole string

// Possible member roles
const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"
)

// Project groups tasks and notes and defines who may see them.
type Project struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject creates a validated project owned by ownerID.
func NewProject(ownerID uuid.UUID, name, description string) (*Project, error) {
	now := time.Now().UTC()
	p := &Project{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return invalid("id", ErrInvalidID)
	}
	if p.OwnerID == uuid.Nil {
		return invalid("owner_id", ErrInvalidID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", ErrEmptyContent)
	}
	if utf8.RuneCountInString(p.Name) > MaxProjectNameLength {
		return invalid("name", ErrTooLong)
	}
	return nil
}

// Rename updates name and description and bumps UpdatedAt.
func (p *Project) Rename(name, description string) error {
	updated := *p
	updated.Name = strings.TrimSpace(name)
	updated.Description = description
	if err := updated.Validate(); err != nil {
		return err
	}

	p.Name = updated.Name
	p.Description = updated.Description
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ProjectMember grants a user access to a project's tasks, notes and realtime room.
type ProjectMember struct {
	ProjectID uuid.UUID  `json:"project_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Role      MemberRole `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewProjectMember creates a validated membership record.
func NewProjectMember(projectID, userID uuid.UUID, role MemberRole) (*ProjectMember, error) {
	m := &ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks if the ProjectMember has valid data.
func (m *ProjectMember) Validate() error {
	if m.ProjectID == uuid.Nil {
		return invalid("project_id", ErrInvalidID)
	}
	if m.UserID == uuid.Nil {
		return invalid("user_id", ErrInvalidID)
	}
	switch m.Role {
	case RoleOwner, RoleMember:
		return nil
	default:
		return invalid("role", ErrInvalidMemberRole)
	}
}
