package api

import (
	"errors"
	"net/http"

	"github.com/linguanote/linguanote/internal/api/respond"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/gate"
	"github.com/linguanote/linguanote/internal/model"
)

// sessionFrom resolves the request's bearer token to a session. On failure
// it writes 401 and returns nil.
func sessionFrom(w http.ResponseWriter, r *http.Request, az auth.Authorizer) *auth.Session {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil
	}
	session, err := az.Authorize(r.Context(), token)
	if err != nil {
		respond.WriteUnauthorized(w, "invalid token")
		return nil
	}
	return session
}

// authorizedSession additionally requires the user to be past the access
// gate. Incomplete profiles get 403 with a NEEDS_USERNAME reason so clients
// can route to the setup screen.
func authorizedSession(w http.ResponseWriter, r *http.Request, az auth.Authorizer, g *gate.Gate) *auth.Session {
	session := sessionFrom(w, r, az)
	if session == nil {
		return nil
	}
	res := g.Evaluate(r.Context(), session)
	if res.Decision != gate.DecisionAuthorized {
		respond.WriteReason(w, http.StatusForbidden, string(res.Decision), "complete username setup first")
		return nil
	}
	return session
}

// writeDomainError maps model sentinel errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		respond.WriteUnauthorized(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
