package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/service"
)

// ProjectHandler serves the project and membership endpoints.
type ProjectHandler struct {
	projects service.ProjectService
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// CreateProject handles POST /api/projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projects.CreateProject(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create project")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, projectToResponse(project))
}

// ListProjects handles GET /api/projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	projects, err := h.projects.ListProjects(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list projects")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(projects, projectToResponse))
}

// GetProject handles GET /api/projects/{id}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	project, err := h.projects.GetProject(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get project")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// UpdateProject handles PUT /api/projects/{id}. Only the owner may rename.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), userID, projectID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update project")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.projects.DeleteProject(r.Context(), userID, projectID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers handles GET /api/projects/{id}/members.
func (h *ProjectHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	members, err := h.projects.ListMembers(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list members")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(members, memberToResponse))
}

// AddMember handles POST /api/projects/{id}/members.
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req AddMemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		HandleAPIError(w, r, &domain.ValidationError{Field: "user_id", Err: domain.ErrInvalidID}, "")
		return
	}

	member, err := h.projects.AddMember(r.Context(), userID, projectID, memberID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add member")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, memberToResponse(member))
}

// RemoveMember handles DELETE /api/projects/{id}/members/{userID}.
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	memberID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.projects.RemoveMember(r.Context(), actorID, projectID, memberID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
