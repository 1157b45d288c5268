package api

import (
	"time"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// UpdateProjectRequest is the body of PUT /projects/{id}.
type UpdateProjectRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// AddMemberRequest is the body of POST /projects/{id}/members.
type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// CreateTaskRequest is the body of POST /projects/{id}/tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"                 validate:"required,max=500"`
	Description string     `json:"description"           validate:"max=10000"`
	Status      string     `json:"status,omitempty"      validate:"omitempty,oneof=todo in_progress done"`
	Priority    string     `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
	AssigneeID  *string    `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. Omitted fields are left
// unchanged. An empty assignee_id unassigns; clear_due_date removes the due date.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=500"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=10000"`
	Status       *string    `json:"status,omitempty"      validate:"omitempty,oneof=todo in_progress done"`
	Priority     *string    `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
	AssigneeID   *string    `json:"assignee_id,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
}

// CreateNoteRequest is the body of POST /projects/{id}/notes.
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// UpdateNoteRequest is the body of PUT /notes/{id}.
type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// ProjectResponse is the API representation of a project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberResponse is the API representation of a project member.
type MemberResponse struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	CreatorID   string     `json:"creator_id"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NoteResponse is the API representation of a note.
type NoteResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RealtimeStatsResponse is the body of GET /realtime/stats.
type RealtimeStatsResponse struct {
	ConnectedUsers int `json:"connectedUsers"`
	Channels       int `json:"channels"`
}

func projectToResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func memberToResponse(m *domain.ProjectMember) MemberResponse {
	return MemberResponse{
		ProjectID: m.ProjectID.String(),
		UserID:    m.UserID.String(),
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		CreatorID:   t.CreatorID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		assignee := t.AssigneeID.String()
		resp.AssigneeID = &assignee
	}
	return resp
}

func noteToResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID.String(),
		ProjectID: n.ProjectID.String(),
		AuthorID:  n.AuthorID.String(),
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
