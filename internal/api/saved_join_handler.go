package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/indexjoin/internal/domain"
	"github.com/rpattn/indexjoin/internal/join"
	"github.com/rpattn/indexjoin/internal/repository"
)

// SavedJoinHandler serves CRUD for persisted join configurations under
// /api/saved-joins and /api/saved-joins/{id}. Configurations are validated
// before saving so a stored configuration is always executable.
type SavedJoinHandler struct {
	repo   repository.SavedJoinRepository
	prefix string
}

func NewSavedJoinHandler(repo repository.SavedJoinRepository, prefix string) http.Handler {
	return &SavedJoinHandler{repo: repo, prefix: strings.TrimRight(prefix, "/")}
}

func (h *SavedJoinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, h.prefix), "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.handleList(w, r)
	case rest == "" && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case rest != "":
		id, err := uuid.Parse(rest)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid saved join id: %v", err), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type savedJoinPayload struct {
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Configuration domain.JoinConfiguration `json:"configuration"`
}

func (h *SavedJoinHandler) handleList(w http.ResponseWriter, r *http.Request) {
	joins, err := h.repo.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, joins)
}

func (h *SavedJoinHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload savedJoinPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := join.ValidateConfiguration(payload.Configuration); err != nil {
		WriteError(w, err)
		return
	}

	created, err := h.repo.Create(r.Context(), domain.SavedJoin{
		Name:          strings.TrimSpace(payload.Name),
		Description:   strings.TrimSpace(payload.Description),
		Configuration: payload.Configuration,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *SavedJoinHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	saved, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("saved join not found: %v", err), http.StatusNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (h *SavedJoinHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
