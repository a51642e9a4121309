package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/linguanote/linguanote/internal/api/respond"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/blob"
	"github.com/linguanote/linguanote/internal/gate"
)

// MediaHandler handles uploads and serves signed media links.
type MediaHandler struct {
	az     auth.Authorizer
	gate   *gate.Gate
	store  blob.Store
	signer *blob.Signer
	limit  int64
}

func NewMediaHandler(az auth.Authorizer, g *gate.Gate, store blob.Store, signer *blob.Signer, limit int64) *MediaHandler {
	return &MediaHandler{az: az, gate: g, store: store, signer: signer, limit: limit}
}

// Upload POST /api/uploads
// Multipart form with a "file" part. Returns a signed URL the client can
// embed in note markup.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	if err := r.ParseMultipartForm(h.limit); err != nil {
		respond.WriteBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.WriteBadRequest(w, "missing file part")
		return
	}
	defer func() { _ = file.Close() }()

	key, err := h.store.Put(r.Context(), session.UserID, header.Filename, file, h.limit)
	if err != nil {
		if errors.Is(err, blob.ErrTooLarge) {
			respond.WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}

	respond.WriteJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": h.signer.SignedPath(key),
	})
}

// Serve GET /media/{key...}
// Signature and expiry come from the query string, so a live link works
// without a session. Expired or tampered links get 403.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := h.signer.Verify(key, r.URL.Query()); err != nil {
		respond.WriteError(w, http.StatusForbidden, err.Error())
		return
	}

	rc, err := h.store.Open(r.Context(), key)
	if err != nil {
		respond.WriteNotFound(w, "media not found")
		return
	}
	defer func() { _ = rc.Close() }()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = io.Copy(w, rc)
}
