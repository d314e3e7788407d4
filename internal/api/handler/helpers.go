package handler

import (
	"encoding/json"
	"net/http"
	"starter_api/internal/api/middleware"
	"starter_api/internal/common"
	"starter_api/internal/domain/model"
	"starter_api/internal/platform/logging"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// respondWithError logs unexpected errors before answering with their status.
func respondWithError(r *http.Request, w http.ResponseWriter, log logging.Logger, err error) {
	if common.HTTPStatusFromError(err) >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	common.RespondWithDomainError(w, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid "+name+" id")
		return 0, false
	}
	return id, true
}

// currentUser is only called behind a guard; a missing user means the route
// was wired without one.
func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		common.RespondWithDomainError(w, common.ErrUnauthorized)
		return nil, false
	}
	return user, true
}
