package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linguanote/linguanote/internal/api/respond"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/gate"
	"github.com/linguanote/linguanote/internal/services"
)

// ProfileHandler serves the access gate and the username setup flow.
type ProfileHandler struct {
	az   auth.Authorizer
	gate *gate.Gate
	svc  *services.ProfileService
}

func NewProfileHandler(az auth.Authorizer, g *gate.Gate, svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{az: az, gate: g, svc: svc}
}

// EvaluateGate POST /api/gate
// Returns the access decision for the caller's session. Requests without a
// valid token still get 200 with an UNAUTHENTICATED decision; clients treat
// the decision, not the status, as the routing signal.
func (h *ProfileHandler) EvaluateGate(w http.ResponseWriter, r *http.Request) {
	var session *auth.Session
	if token, err := auth.ExtractBearerToken(r); err == nil {
		if s, err := h.az.Authorize(r.Context(), token); err == nil {
			session = s
		}
	}
	res := h.gate.Evaluate(r.Context(), session)
	respond.WriteJSON(w, http.StatusOK, res)
}

// GetProfile GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(w, r, h.az)
	if session == nil {
		return
	}
	prof, err := h.svc.GetProfile(r.Context(), session.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, prof)
}

// SetUsername PUT /api/profile/username
// Rejections carry a machine-readable reason (INVALID_EMPTY, TOO_SHORT,
// TOO_LONG, INVALID_CHARS, TAKEN).
func (h *ProfileHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(w, r, h.az)
	if session == nil {
		return
	}
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	prof, err := h.gate.SetUsername(r.Context(), session, req.Username)
	if err != nil {
		var se *gate.SetupError
		if errors.As(err, &se) {
			status := http.StatusBadRequest
			if se.Code == gate.CodeTaken {
				status = http.StatusConflict
			}
			respond.WriteReason(w, status, se.Code, se.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, prof)
}
