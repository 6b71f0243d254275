package utils

import (
	"encoding/json"
	"net/http"

	"clinica-ia/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a dto.ErrorResponse with the given status
func WriteErrorResponse(w http.ResponseWriter, status int, message, detail string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: message, Message: detail})
}

// NotFound renders the JSON 404 used for unknown paths
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteErrorResponse(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), "")
}
