package api

import (
	"encoding/json"
	"net/http"

	"github.com/cthoyt/sssom-go/internal/log"
)

// errorResponse is the JSON body of every non-2xx reply.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.Base()
		logger.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message, Status: status})
}
