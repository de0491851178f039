// Package server assembles the HTTP routing table and middleware chain.
package server

import (
	"net/http"

	"noteful-server/internal/config"
	"noteful-server/internal/handler"
	"noteful-server/internal/middleware"
	"noteful-server/pkg/response"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	NoteHandler      *handler.NoteHandler
	WebSocketHandler *handler.WebSocketHandler
	CORS             config.CORSConfig
	Logger           zerolog.Logger
}

// NewRouter returns the full handler. Middleware wraps the router rather
// than being attached with Use so unmatched paths are logged too.
func NewRouter(deps Dependencies) http.Handler {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/", handler.Index).Methods("GET", "HEAD")
	r.HandleFunc("/health", handler.Health).Methods("GET", "HEAD")

	if deps.WebSocketHandler != nil {
		r.HandleFunc("/ws", deps.WebSocketHandler.HandleConnection).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.HandleFunc("/notes", deps.NoteHandler.List).Methods("GET")
	api.HandleFunc("/notes", deps.NoteHandler.Create).Methods("POST")
	api.HandleFunc("/notes/{id}", deps.NoteHandler.Get).Methods("GET")
	api.HandleFunc("/notes/{id}", deps.NoteHandler.Update).Methods("PUT")

	var h http.Handler = r
	h = middleware.CORSMiddleware(deps.CORS.AllowedOrigins, deps.CORS.AllowedMethods, deps.CORS.AllowedHeaders)(h)
	h = middleware.RecoverMiddleware(deps.Logger)(h)
	h = middleware.LoggerMiddleware(deps.Logger)(h)
	h = middleware.RequestIDMiddleware()(h)

	return h
}

func notFound(w http.ResponseWriter, r *http.Request) {
	response.NotFound(w)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.MethodNotAllowed(w)
}
