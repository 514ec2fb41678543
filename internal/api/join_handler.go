package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/indexjoin/internal/domain"
	"github.com/rpattn/indexjoin/internal/join"
)

// JoinHandler serves the execute and preview endpoints of the join engine.
type JoinHandler struct {
	engine *join.Engine
}

func NewJoinHandler(engine *join.Engine) http.Handler {
	return &JoinHandler{engine: engine}
}

func (h *JoinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/preview"):
		h.handlePreview(w, r)
		return
	case r.Method == http.MethodPost:
		h.handleExecute(w, r)
		return
	default:
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
}

func (h *JoinHandler) handleExecute(w http.ResponseWriter, r *http.Request) {
	var cfg domain.JoinConfiguration
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.engine.Execute(r.Context(), cfg)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *JoinHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	req := join.PreviewRequest{
		LeftIndex:  strings.TrimSpace(params.Get("leftIndex")),
		RightIndex: strings.TrimSpace(params.Get("rightIndex")),
		LeftField:  strings.TrimSpace(params.Get("leftField")),
		RightField: strings.TrimSpace(params.Get("rightField")),
	}

	result, err := h.engine.Preview(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
