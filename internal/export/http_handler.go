package export

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rpattn/indexjoin/internal/api"
	"github.com/rpattn/indexjoin/internal/domain"
	"github.com/rpattn/indexjoin/internal/join"
)

// Handler exposes join export as an HTTP endpoint.
type Handler struct {
	engine  *join.Engine
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint that executes the
// join and streams the workbook back as an attachment.
func NewHTTPHandler(engine *join.Engine, service *Service) http.Handler {
	return &Handler{engine: engine, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cfg domain.JoinConfiguration
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.engine.ExecuteAll(r.Context(), cfg)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	fileName := fmt.Sprintf("join-export-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := h.service.WriteXLSX(w, cfg.IncludedFields(), result.Rows); err != nil {
		// Headers are already on the wire at this point.
		log.Printf("[EXPORT] failed to write workbook: %v", err)
	}
}
