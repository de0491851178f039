package middleware

import (
	"net/http"
	"runtime/debug"

	"noteful-server/pkg/response"

	"github.com/rs/zerolog"
)

// RecoverMiddleware turns a handler panic into a 500 with the uniform error body.
func RecoverMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error().
						Interface("panic", rec).
						Str("request_id", GetRequestID(r)).
						Bytes("stack", debug.Stack()).
						Msg("handler panicked")
					response.InternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
