package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linguanote/linguanote/internal/api/respond"
	"github.com/linguanote/linguanote/internal/api/validate"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/gate"
	"github.com/linguanote/linguanote/internal/services"
)

// DocumentHandler serves the per-language basic document.
type DocumentHandler struct {
	az   auth.Authorizer
	gate *gate.Gate
	svc  *services.DocumentService
}

func NewDocumentHandler(az auth.Authorizer, g *gate.Gate, svc *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{az: az, gate: g, svc: svc}
}

// OpenDocument GET /api/documents/{lang}
// Creates the document lazily on first open.
func (h *DocumentHandler) OpenDocument(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	lang := mux.Vars(r)["lang"]
	if err := validate.LanguageCode(lang); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	doc, err := h.svc.OpenDocument(r.Context(), session.UserID, lang)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, doc)
}

// SaveDocument PUT /api/documents/{documentId}
func (h *DocumentHandler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	session := authorizedSession(w, r, h.az, h.gate)
	if session == nil {
		return
	}
	var req struct {
		Doc   json.RawMessage `json:"doc"`
		Plain string          `json:"plain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.SaveDocument(req.Doc, req.Plain); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	doc, err := h.svc.SaveDocument(r.Context(), session.UserID, mux.Vars(r)["documentId"], req.Doc, req.Plain)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, doc)
}
