package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/indexjoin/internal/search"
)

// FieldsHandler serves GET /api/indices/{index}/fields, the flattened field
// paths the configuration UI offers for join and output field selection.
type FieldsHandler struct {
	mapper search.FieldMapper
	prefix string
}

func NewFieldsHandler(mapper search.FieldMapper, prefix string) http.Handler {
	return &FieldsHandler{mapper: mapper, prefix: strings.TrimRight(prefix, "/")}
}

func (h *FieldsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, h.prefix), "/")
	index := strings.TrimSuffix(rest, "/fields")
	if index == "" || index == rest {
		http.Error(w, "expected /indices/{index}/fields", http.StatusNotFound)
		return
	}

	fields, err := h.mapper.Fields(r.Context(), index)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load fields for %q: %v", index, err), http.StatusBadGateway)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"index": index, "fields": fields})
}
