package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// RespondError sends an error JSON response.
func RespondError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Error().Err(err).Int("status", code).Msg(message)
	}
	RespondJSON(w, code, &errorResponse{
		Success:    false,
		StatusCode: code,
		Message:    message,
	})
}
