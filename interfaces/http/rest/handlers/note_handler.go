// Package handlers contains the REST endpoint implementations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mindgraph-backend/application/services"
	"mindgraph-backend/domain/notes"
	"mindgraph-backend/pkg/auth"
	pkgerrors "mindgraph-backend/pkg/errors"
)

var validate = validator.New()

// NoteHandler handles note CRUD requests
type NoteHandler struct {
	service      *services.NoteService
	logger       *zap.Logger
	errorHandler *pkgerrors.ErrorHandler
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(service *services.NoteService, logger *zap.Logger, errorHandler *pkgerrors.ErrorHandler) *NoteHandler {
	return &NoteHandler{
		service:      service,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// CreateNoteRequest is the request body for creating a note
type CreateNoteRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=200"`
	Category string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Color    string   `json:"color,omitempty" validate:"omitempty,oneof=blue green purple orange pink"`
}

// UpdateNoteRequest is the request body for updating a note
type UpdateNoteRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=200"`
	Category string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Color    string   `json:"color,omitempty" validate:"omitempty,oneof=blue green purple orange pink"`
}

// NoteResponse is the wire representation of a note
type NoteResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags"`
	Color     string   `json:"color"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Version   int      `json:"version"`
}

// ListNotesResponse wraps the note collection
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int            `json:"total"`
}

func toNoteResponse(note *notes.Note) NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Category:  note.Category,
		Tags:      tags,
		Color:     string(note.Color),
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
		Version:   note.Version,
	}
}

// CreateNote handles POST /api/v1/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("unauthorized"))
		return
	}

	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	note, err := h.service.CreateNote(r.Context(), user.UserID, services.NoteInput{
		Title:    req.Title,
		Category: req.Category,
		Tags:     req.Tags,
		Color:    notes.Color(req.Color),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toNoteResponse(note))
}

// GetNote handles GET /api/v1/notes/{noteID}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("unauthorized"))
		return
	}

	note, err := h.service.GetNote(r.Context(), user.UserID, chi.URLParam(r, "noteID"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toNoteResponse(note))
}

// ListNotes handles GET /api/v1/notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("unauthorized"))
		return
	}

	list, err := h.service.ListNotes(r.Context(), user.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	resp := ListNotesResponse{Notes: make([]NoteResponse, 0, len(list)), Total: len(list)}
	for _, note := range list {
		resp.Notes = append(resp.Notes, toNoteResponse(note))
	}
	respondJSON(w, http.StatusOK, resp)
}

// UpdateNote handles PUT /api/v1/notes/{noteID}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("unauthorized"))
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	note, err := h.service.UpdateNote(r.Context(), user.UserID, chi.URLParam(r, "noteID"), services.NoteInput{
		Title:    req.Title,
		Category: req.Category,
		Tags:     req.Tags,
		Color:    notes.Color(req.Color),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toNoteResponse(note))
}

// DeleteNote handles DELETE /api/v1/notes/{noteID}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("unauthorized"))
		return
	}

	if err := h.service.DeleteNote(r.Context(), user.UserID, chi.URLParam(r, "noteID")); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
