package handler

import (
	"context"
	"net/http"
	"starter_api/internal/common"
	"starter_api/internal/platform/logging"

	"github.com/go-chi/chi/v5"
)

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type IndexHandler struct {
	deps map[string]Pinger
	log  logging.Logger
}

func NewIndexHandler(deps map[string]Pinger, log logging.Logger) *IndexHandler {
	return &IndexHandler{deps: deps, log: log}
}

func (h *IndexHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/health", h.health)
}

func (h *IndexHandler) index(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World!"})
}

func (h *IndexHandler) health(w http.ResponseWriter, r *http.Request) {
	for name, dep := range h.deps {
		if err := dep.Ping(r.Context()); err != nil {
			h.log.Warn(r.Context(), "health check failed", "dependency", name, "error", err)
			common.RespondWithError(w, http.StatusServiceUnavailable, name+" unavailable")
			return
		}
	}
	w.Write([]byte("OK"))
}
