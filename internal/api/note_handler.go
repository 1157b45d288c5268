package api

import (
	"net/http"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/service"
)

// NoteHandler serves the note endpoints.
type NoteHandler struct {
	notes service.NoteService
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// CreateNote handles POST /api/projects/{id}/notes.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req CreateNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.notes.CreateNote(r.Context(), userID, projectID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create note")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, noteToResponse(note))
}

// ListNotes handles GET /api/projects/{id}/notes.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	notes, err := h.notes.ListNotes(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(notes, noteToResponse))
}

// GetNote handles GET /api/notes/{id}.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	note, err := h.notes.GetNote(r.Context(), userID, noteID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get note")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// UpdateNote handles PUT /api/notes/{id}. Only the author may edit.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.notes.UpdateNote(r.Context(), userID, noteID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update note")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// DeleteNote handles DELETE /api/notes/{id}. Authors and the project owner may delete.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.notes.DeleteNote(r.Context(), userID, noteID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
