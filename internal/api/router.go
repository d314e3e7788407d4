package api

import (
	"net/http"
	"starter_api/internal/api/handler"
	"starter_api/internal/api/middleware"
	"starter_api/internal/app/service"
	"starter_api/internal/common/security"
	"starter_api/internal/platform/logging"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

// Services bundles what the router needs to build its handlers.
type Services struct {
	Tokens   *security.TokenManager
	Auth     *service.AuthService
	Users    *service.UserService
	Contents *service.ContentService
	// Health lists the dependencies checked by GET /health.
	Health map[string]handler.Pinger
}

func NewRouter(svc Services, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(chiMiddleware.StripSlashes)

	// Verifies the bearer token and puts it in the context; the guards decide.
	r.Use(jwtauth.Verifier(svc.Tokens.Auth()))

	guard := middleware.NewGuard(svc.Auth, log)

	handler.NewIndexHandler(svc.Health, log).RegisterRoutes(r)
	handler.NewAuthHandler(svc.Auth, log).RegisterRoutes(r)
	handler.NewUserHandler(svc.Users, guard, log).RegisterRoutes(r)

	contentHandler := handler.NewContentHandler(svc.Contents, guard, log)
	r.Route("/content", contentHandler.RegisterRoutes)

	return r
}
