package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"noteful-server/internal/domain"
	"noteful-server/internal/middleware"
	"noteful-server/internal/service"
	"noteful-server/pkg/response"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type NoteHandler struct {
	service      *service.NoteService
	logger       zerolog.Logger
	exposeErrors bool
}

// NewNoteHandler builds the handler. exposeErrors adds the underlying error
// text to error bodies and should only be set in development.
func NewNoteHandler(service *service.NoteService, logger zerolog.Logger, exposeErrors bool) *NoteHandler {
	return &NoteHandler{
		service:      service,
		logger:       logger,
		exposeErrors: exposeErrors,
	}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	searchTerm := r.URL.Query().Get("searchTerm")

	notes, err := h.service.List(r.Context(), searchTerm)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeBadPayload(w, err)
		return
	}

	note, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, noteLocation(r, note.ID), note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeBadPayload(w, err)
		return
	}

	note, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, note)
}

// writeError maps service errors onto the uniform {message, error} body.
func (h *NoteHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var detail error
	if h.exposeErrors {
		detail = err
	}

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.Error(w, http.StatusBadRequest, vErr.Error(), detail)
	case errors.Is(err, service.ErrNoteNotFound):
		response.Error(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), detail)
	default:
		h.logger.Error().Err(err).
			Str("request_id", middleware.GetRequestID(r)).
			Str("path", r.URL.Path).
			Msg("note request failed")
		response.Error(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), detail)
	}
}

func (h *NoteHandler) writeBadPayload(w http.ResponseWriter, err error) {
	var detail error
	if h.exposeErrors {
		detail = err
	}
	response.Error(w, http.StatusBadRequest, "Invalid request payload", detail)
}

// decodeBody reads a JSON object into v. An empty body decodes as {} so
// that a bodiless POST reports the missing title rather than bad JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func noteLocation(r *http.Request, id int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s%s/%d", scheme, r.Host, strings.TrimSuffix(r.URL.Path, "/"), id)
}
