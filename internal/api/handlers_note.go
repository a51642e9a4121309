package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linguanote/linguanote/internal/api/respond"
	"github.com/linguanote/linguanote/internal/api/validate"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/content"
	"github.com/linguanote/linguanote/internal/gate"
	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/services"
)

// NoteHandler is a thin HTTP transport over NoteService.
type NoteHandler struct {
	az   auth.Authorizer
	gate *gate.Gate
	svc  *services.NoteService
}

func NewNoteHandler(az auth.Authorizer, g *gate.Gate, svc *services.NoteService) *NoteHandler {
	return &NoteHandler{az: az, gate: g, svc: svc}
}

// ListNotes GET /api/notes?lang=ja
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	lang := r.URL.Query().Get("lang")
	if err := validate.LanguageCode(lang); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	notes, err := h.svc.ListNotes(r.Context(), session.UserID, lang)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notes": notes, "count": len(notes)})
}

// CreateNote POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	var req struct {
		Title        string   `json:"title"`
		Content      string   `json:"content"`
		LanguageCode string   `json:"languageCode"`
		ImageURLs    []string `json:"imageUrls,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateNote(req.Title, req.Content, req.LanguageCode); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreateNote(r.Context(), &model.Note{
		UserID:       session.UserID,
		Title:        req.Title,
		Content:      req.Content,
		LanguageCode: req.LanguageCode,
		ImageURLs:    req.ImageURLs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetNote GET /api/notes/{noteId}
// The response includes the parsed media blocks alongside the raw content.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	note, err := h.svc.GetNote(r.Context(), session.UserID, mux.Vars(r)["noteId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"note":   note,
		"blocks": content.Parse(note.Content),
	})
}

// UpdateNote PATCH /api/notes/{noteId}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	var req struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.UpdateNote(req.Title, req.Content); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.UpdateNote(r.Context(), session.UserID, mux.Vars(r)["noteId"],
		model.NotePatch{Title: req.Title, Content: req.Content})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteNote DELETE /api/notes/{noteId}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	if err := h.svc.DeleteNote(r.Context(), session.UserID, mux.Vars(r)["noteId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
