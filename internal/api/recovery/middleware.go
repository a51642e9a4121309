// Package recovery keeps a panicking handler from taking the server down.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/linguanote/linguanote/internal/api/respond"
)

// Middleware converts a downstream panic into a logged 500 so one bad
// request cannot kill the process.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("remote", r.RemoteAddr).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteInternalError(w, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
