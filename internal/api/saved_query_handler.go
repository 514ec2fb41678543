package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/indexjoin/internal/domain"
	"github.com/rpattn/indexjoin/internal/repository"
)

// SavedQueryHandler serves CRUD for named scoping queries under
// /api/saved-queries and /api/saved-queries/{id}.
type SavedQueryHandler struct {
	repo   repository.SavedQueryRepository
	prefix string
}

func NewSavedQueryHandler(repo repository.SavedQueryRepository, prefix string) http.Handler {
	return &SavedQueryHandler{repo: repo, prefix: strings.TrimRight(prefix, "/")}
}

func (h *SavedQueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, h.prefix), "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.handleList(w, r)
	case rest == "" && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case rest != "":
		id, err := uuid.Parse(rest)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid saved query id: %v", err), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type savedQueryPayload struct {
	Name  string          `json:"name"`
	Index string          `json:"index"`
	Query json.RawMessage `json:"query"`
}

func (p savedQueryPayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.Index) == "" {
		return fmt.Errorf("index is required")
	}
	return nil
}

func (h *SavedQueryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	queries, err := h.repo.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, queries)
}

func (h *SavedQueryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload savedQueryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := payload.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), domain.SavedQuery{
		Name:  strings.TrimSpace(payload.Name),
		Index: strings.TrimSpace(payload.Index),
		Query: payload.Query,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *SavedQueryHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	query, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("saved query not found: %v", err), http.StatusNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, query)
}

func (h *SavedQueryHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var payload savedQueryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := payload.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), domain.SavedQuery{
		ID:    id,
		Name:  strings.TrimSpace(payload.Name),
		Index: strings.TrimSpace(payload.Index),
		Query: payload.Query,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (h *SavedQueryHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
