package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"starter_api/internal/common"
	"starter_api/internal/common/security"
	"starter_api/internal/domain/model"
	"starter_api/internal/platform/logging"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const currentUserCtxKey contextKey = "currentUser"

var (
	errNotAuthenticated = common.WithMessage(common.ErrUnauthorized, "Could not validate credentials")
	errInactiveUser     = common.WithMessage(common.ErrUnauthorized, "Inactive user")
	errFreshRequired    = common.WithMessage(common.ErrForbidden, "Fresh login required")
	errNotAdmin         = common.WithMessage(common.ErrForbidden, "Not an admin user")
)

// Requirement is the extra condition a guarded route places on the current user.
type Requirement int

const (
	RequireAuthenticated Requirement = iota
	RequireFresh
	RequireAdmin
)

// IdentityLookup resolves a token subject to a stored user.
type IdentityLookup interface {
	LookupUser(ctx context.Context, subject string) (*model.User, error)
}

// Guard derives the current user from the token placed in the request
// context by jwtauth.Verifier.
type Guard struct {
	users IdentityLookup
	log   logging.Logger
}

func NewGuard(users IdentityLookup, log logging.Logger) *Guard {
	return &Guard{users: users, log: log}
}

// Resolve returns the current user when the request satisfies req.
func (g *Guard) Resolve(r *http.Request, req Requirement) (*model.User, *security.Claims, error) {
	ctx := r.Context()

	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return nil, nil, errNotAuthenticated
	}
	claims, err := security.ParseClaims(jwt.MapClaims(raw))
	if err != nil || claims.Scope != security.ScopeAccess {
		return nil, nil, errNotAuthenticated
	}

	user, err := g.users.LookupUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, errNotAuthenticated
		}
		return nil, nil, fmt.Errorf("guard: %w", err)
	}
	if !user.IsActive() {
		return nil, nil, errInactiveUser
	}

	switch req {
	case RequireFresh:
		if !claims.Fresh && !user.Superuser {
			return nil, nil, errFreshRequired
		}
	case RequireAdmin:
		if !user.Superuser {
			return nil, nil, errNotAdmin
		}
	}
	return user, claims, nil
}

func (g *Guard) require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _, err := g.Resolve(r, req)
			if err != nil {
				if common.HTTPStatusFromError(err) == http.StatusInternalServerError {
					g.log.Error(r.Context(), "failed to resolve current user", "error", err)
				}
				common.RespondWithDomainError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), currentUserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticated admits any active user holding a valid access token.
func (g *Guard) Authenticated(next http.Handler) http.Handler {
	return g.require(RequireAuthenticated)(next)
}

// FreshAuthenticated additionally requires a token issued by a password
// login. Superusers are exempt.
func (g *Guard) FreshAuthenticated(next http.Handler) http.Handler {
	return g.require(RequireFresh)(next)
}

// Admin additionally requires a superuser.
func (g *Guard) Admin(next http.Handler) http.Handler {
	return g.require(RequireAdmin)(next)
}

// CurrentUser returns the user stored by one of the guard middlewares.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(currentUserCtxKey).(*model.User)
	return user, ok && user != nil
}
