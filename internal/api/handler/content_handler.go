package handler

import (
	"net/http"
	"starter_api/internal/api/middleware"
	"starter_api/internal/app/service"
	"starter_api/internal/common"
	"starter_api/internal/platform/logging"

	"github.com/go-chi/chi/v5"
)

type ContentHandler struct {
	contentService *service.ContentService
	guard          *middleware.Guard
	log            logging.Logger
}

func NewContentHandler(contentService *service.ContentService, guard *middleware.Guard, log logging.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, guard: guard, log: log}
}

func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{content}", h.get)

	r.Group(func(auth chi.Router) {
		auth.Use(h.guard.Authenticated)
		auth.Post("/", h.create)
		auth.Patch("/{content}", h.update)
		auth.Delete("/{content}", h.delete)
	})
}

func (h *ContentHandler) list(w http.ResponseWriter, r *http.Request) {
	contents, err := h.contentService.List(r.Context())
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contents)
}

// get accepts either a numeric id or a slug.
func (h *ContentHandler) get(w http.ResponseWriter, r *http.Request) {
	content, err := h.contentService.Get(r.Context(), chi.URLParam(r, "content"))
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, content)
}

func (h *ContentHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req service.CreateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := h.contentService.Create(r.Context(), actor, req)
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, content)
}

func (h *ContentHandler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "content")
	if !ok {
		return
	}
	var req service.UpdateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := h.contentService.Update(r.Context(), actor, id, req)
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, content)
}

func (h *ContentHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "content")
	if !ok {
		return
	}

	if err := h.contentService.Delete(r.Context(), actor, id); err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.OKResponse{OK: true})
}
