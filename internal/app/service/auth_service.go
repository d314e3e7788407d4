package service

import (
	"context"
	"errors"
	"fmt"
	"starter_api/internal/common"
	"starter_api/internal/common/security"
	"starter_api/internal/domain/model"
	"starter_api/internal/domain/repository"
)

var (
	errIncorrectLogin = common.WithMessage(common.ErrUnauthorized, "Incorrect username or password")
	errInvalidRefresh = common.WithMessage(common.ErrUnauthorized, "Invalid refresh token")
	errInactiveUser   = common.WithMessage(common.ErrUnauthorized, "Inactive user")
)

type AuthService struct {
	store  repository.Manager
	tokens *security.TokenManager
}

func NewAuthService(store repository.Manager, tokens *security.TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login checks the credentials and issues a fresh token pair. The user is
// matched by username only, never by id.
// Disabled users get tokens too; the guard rejects them on use.
func (s *AuthService) Login(ctx context.Context, username, password string) (*security.TokenPair, error) {
	if username == "" || password == "" {
		return nil, errIncorrectLogin
	}

	user, err := s.LookupUser(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errIncorrectLogin
		}
		return nil, fmt.Errorf("authService.Login: %w", err)
	}

	if !user.Password.Verify(password) {
		return nil, errIncorrectLogin
	}

	pair, err := s.tokens.IssuePair(user.Username, true)
	if err != nil {
		return nil, fmt.Errorf("authService.Login: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The subject must still
// exist and be active. The new access token is not fresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*security.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil || claims.Scope != security.ScopeRefresh {
		return nil, errInvalidRefresh
	}

	user, err := s.LookupUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidRefresh
		}
		return nil, fmt.Errorf("authService.Refresh: %w", err)
	}
	if !user.IsActive() {
		return nil, errInactiveUser
	}

	pair, err := s.tokens.IssuePair(user.Username, false)
	if err != nil {
		return nil, fmt.Errorf("authService.Refresh: %w", err)
	}
	return pair, nil
}

// LookupUser fetches the user a token subject names.
func (s *AuthService) LookupUser(ctx context.Context, subject string) (*model.User, error) {
	var user *model.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		user, err = store.Users().FindByUsername(ctx, subject)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
