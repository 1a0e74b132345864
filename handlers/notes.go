package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/middleware"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/service"
)

const msgNoteNotFound = "Note not found"

// NoteHandler serves the note endpoints. All routes sit behind the auth gate.
type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// writeNoteError maps note service errors, using failMessage for anything unexpected
func writeNoteError(w http.ResponseWriter, err error, failMessage string) {
	switch {
	case writeValidation(w, err):
	case errors.Is(err, errors.ErrNoteNotFound):
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
	default:
		writeMessage(w, http.StatusInternalServerError, failMessage)
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Create(r.Context(), middleware.UserID(r), req)
	if err != nil {
		writeNoteError(w, err, "Error creating note")
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context(), middleware.UserID(r))
	if err != nil {
		writeNoteError(w, err, "Error fetching notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Update(r.Context(), middleware.UserID(r), r.PathValue("id"), req)
	if err != nil {
		writeNoteError(w, err, "Failed to update note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), middleware.UserID(r), r.PathValue("id")); err != nil {
		writeNoteError(w, err, "Failed to delete note")
		return
	}
	writeMessage(w, http.StatusOK, "Note deleted successfully")
}

func (h *NoteHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req models.NoteStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.SetStatus(r.Context(), middleware.UserID(r), r.PathValue("id"), req.Status)
	if err != nil {
		writeNoteError(w, err, "Failed to update status")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// SetFavorite only accepts a JSON boolean; anything else reaches the service
// as nil so an unknown note still answers 404 first.
func (h *NoteHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Favorite json.RawMessage `json:"favorite"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var favorite *bool
	var v interface{}
	if err := json.Unmarshal(req.Favorite, &v); err == nil {
		if b, ok := v.(bool); ok {
			favorite = &b
		}
	}

	resp, err := h.notes.SetFavorite(r.Context(), middleware.UserID(r), r.PathValue("id"), favorite)
	if err != nil {
		writeNoteError(w, err, "Failed to toggle favorite")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
