package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rpattn/indexjoin/internal/domain"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Errors   []string `json:"errors"`
	SourceID string   `json:"sourceId,omitempty"`
}

// WriteError maps the engine's error taxonomy onto HTTP statuses:
// configuration problems are 400 with the discrete message list, fetch
// failures are 502 naming the failing source, everything else is 500.
func WriteError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		WriteJSON(w, http.StatusBadRequest, errorResponse{Errors: cfgErr.Problems})
		return
	}

	var cycleErr *domain.CyclicJoinError
	if errors.As(err, &cycleErr) {
		WriteJSON(w, http.StatusBadRequest, errorResponse{Errors: []string{cycleErr.Error()}})
		return
	}

	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		WriteJSON(w, http.StatusBadGateway, errorResponse{Errors: []string{fetchErr.Error()}, SourceID: fetchErr.SourceID})
		return
	}

	log.Printf("[API] internal error: %v", err)
	WriteJSON(w, http.StatusInternalServerError, errorResponse{Errors: []string{"internal server error"}})
}
