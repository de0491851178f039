package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the shape of every 4xx/5xx response.
type ErrorBody struct {
	Message string                 `json:"message"`
	Error   map[string]interface{} `json:"error"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, location string, data interface{}) {
	w.Header().Set("Location", location)
	JSON(w, http.StatusCreated, data)
}

// Error writes {message, error}. detail, when non-nil, is exposed under
// error.detail; callers pass it only outside production.
func Error(w http.ResponseWriter, statusCode int, message string, detail error) {
	body := ErrorBody{
		Message: message,
		Error:   map[string]interface{}{"status": statusCode},
	}
	if detail != nil {
		body.Error["detail"] = detail.Error()
	}
	JSON(w, statusCode, body)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message, nil)
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), nil)
}

func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), nil)
}

func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil)
}
