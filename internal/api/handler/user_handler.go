package handler

import (
	"net/http"
	"starter_api/internal/api/middleware"
	"starter_api/internal/app/service"
	"starter_api/internal/common"
	"starter_api/internal/platform/logging"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	guard       *middleware.Guard
	log         logging.Logger
}

func NewUserHandler(userService *service.UserService, guard *middleware.Guard, log logging.Logger) *UserHandler {
	return &UserHandler{userService: userService, guard: guard, log: log}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.With(h.guard.Authenticated).Get("/profile", h.me)

	r.Route("/user", func(r chi.Router) {
		r.With(h.guard.Authenticated).Get("/me", h.me)

		r.Group(func(admin chi.Router) {
			admin.Use(h.guard.Admin)
			admin.Get("/", h.list)
			admin.Post("/", h.create)
			admin.Delete("/{user}", h.delete)
		})

		r.With(h.guard.Authenticated).Get("/{user}", h.get)
		r.With(h.guard.FreshAuthenticated).Patch("/{user}/password", h.updatePassword)
	})
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	resp, err := h.userService.Profile(r.Context(), user)
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.userService.Create(r.Context(), req)
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// get accepts either a numeric id or a username.
func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.userService.Get(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID, ok := idParam(w, r, "user")
	if !ok {
		return
	}
	var req service.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.userService.UpdatePassword(r.Context(), actor, userID, req)
	if err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID, ok := idParam(w, r, "user")
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), actor, userID); err != nil {
		respondWithError(r, w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.OKResponse{OK: true})
}
