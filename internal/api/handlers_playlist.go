package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linguanote/linguanote/internal/api/respond"
	"github.com/linguanote/linguanote/internal/api/validate"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/gate"
	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/services"
)

// PlaylistHandler is a thin HTTP transport over PlaylistService.
type PlaylistHandler struct {
	az   auth.Authorizer
	gate *gate.Gate
	svc  *services.PlaylistService
}

func NewPlaylistHandler(az auth.Authorizer, g *gate.Gate, svc *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{az: az, gate: g, svc: svc}
}

// ListPlaylists GET /api/playlists?lang=ja
func (h *PlaylistHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	lang := r.URL.Query().Get("lang")
	if err := validate.LanguageCode(lang); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	pls, err := h.svc.ListPlaylists(r.Context(), session.UserID, lang)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"playlists": pls, "count": len(pls)})
}

// CreatePlaylist POST /api/playlists
func (h *PlaylistHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	var req struct {
		Name         string `json:"name"`
		LanguageCode string `json:"languageCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreatePlaylist(req.Name, req.LanguageCode); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreatePlaylist(r.Context(), &model.Playlist{
		UserID:       session.UserID,
		Name:         req.Name,
		LanguageCode: req.LanguageCode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// DeletePlaylist DELETE /api/playlists/{playlistId}
func (h *PlaylistHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	if err := h.svc.DeletePlaylist(r.Context(), session.UserID, mux.Vars(r)["playlistId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddNote PUT /api/playlists/{playlistId}/notes/{noteId}
// Adding an existing member is a no-op; the call still succeeds.
func (h *PlaylistHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	vars := mux.Vars(r)
	if err := h.svc.AddNote(r.Context(), session.UserID, vars["playlistId"], vars["noteId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveNote DELETE /api/playlists/{playlistId}/notes/{noteId}
func (h *PlaylistHandler) RemoveNote(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	vars := mux.Vars(r)
	if err := h.svc.RemoveNote(r.Context(), session.UserID, vars["playlistId"], vars["noteId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaylistNotes GET /api/playlists/{playlistId}/notes
// Returns the playlist's notes in membership order.
func (h *PlaylistHandler) PlaylistNotes(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	notes, err := h.svc.PlaylistNotes(r.Context(), session.UserID, mux.Vars(r)["playlistId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notes": notes, "count": len(notes)})
}

// ListMemberships GET /api/memberships?lang=ja
func (h *PlaylistHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	lang := r.URL.Query().Get("lang")
	if err := validate.LanguageCode(lang); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	ms, err := h.svc.ListMemberships(r.Context(), session.UserID, lang)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ms == nil {
		ms = []*model.Membership{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memberships": ms, "count": len(ms)})
}
