package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository"
	"noteful-server/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNoteHandler(exposeErrors bool) *NoteHandler {
	repo := repository.NewMemoryNoteRepository(domain.SeedNotes())
	return NewNoteHandler(service.NewNoteService(repo, nil, 0), zerolog.Nop(), exposeErrors)
}

func TestNoteHandler_ErrorDetail(t *testing.T) {
	tests := []struct {
		name         string
		exposeErrors bool
		wantDetail   bool
	}{
		{name: "development exposes detail", exposeErrors: true, wantDetail: true},
		{name: "production hides detail", exposeErrors: false, wantDetail: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestNoteHandler(tt.exposeErrors)

			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/notes/404", nil), map[string]string{"id": "404"})
			w := httptest.NewRecorder()
			h.Get(w, req)

			require.Equal(t, http.StatusNotFound, w.Code)

			var body struct {
				Message string                 `json:"message"`
				Error   map[string]interface{} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Not Found", body.Message)
			assert.Equal(t, float64(404), body.Error["status"])

			_, hasDetail := body.Error["detail"]
			assert.Equal(t, tt.wantDetail, hasDetail)
		})
	}
}

func TestNoteHandler_CreateLocationHonorsForwardedProto(t *testing.T) {
	h := newTestNoteHandler(false)

	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(`{"title":"t"}`))
	req.Host = "notes.example.org"
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	h.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://notes.example.org/api/notes/1010", w.Header().Get("Location"))
}

func TestNoteHandler_CreateRejectsOversizedBody(t *testing.T) {
	h := newTestNoteHandler(false)

	body := `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
