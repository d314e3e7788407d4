package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL applies when a token is issued without a lifetime.
const DefaultTokenTTL = 15 * time.Minute

const TokenTypeBearer = "bearer"

var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenManager issues and verifies signed access and refresh tokens.
type TokenManager struct {
	auth       *jwtauth.JWTAuth
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret []byte, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("security: token secret must not be empty")
	}
	if !supportedAlgorithms[algorithm] {
		return nil, fmt.Errorf("security: unsupported signing algorithm %q", algorithm)
	}
	return &TokenManager{
		auth:       jwtauth.New(algorithm, secret, nil),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Auth exposes the underlying JWTAuth for jwtauth.Verifier.
func (m *TokenManager) Auth() *jwtauth.JWTAuth {
	return m.auth
}

// Issue signs a token for subject. A non-positive ttl falls back to DefaultTokenTTL.
// The fresh flag is only recorded on access tokens.
func (m *TokenManager) Issue(subject string, scope Scope, ttl time.Duration, fresh bool) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := m.now()
	claims := jwt.MapClaims{
		"scope": string(scope),
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if subject != "" {
		claims["sub"] = subject
	}
	if scope == ScopeAccess {
		claims["fresh"] = fresh
	}

	_, tokenString, err := m.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", scope, err)
	}
	return tokenString, nil
}

// IssuePair mints an access token and a refresh token for subject.
func (m *TokenManager) IssuePair(subject string, fresh bool) (*TokenPair, error) {
	access, err := m.Issue(subject, ScopeAccess, m.accessTTL, fresh)
	if err != nil {
		return nil, err
	}
	refresh, err := m.Issue(subject, ScopeRefresh, m.refreshTTL, false)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: TokenTypeBearer}, nil
}

// Verify checks signature and expiry of tokenString and returns its claims.
// Every failure wraps ErrInvalidCredentials.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, jwtauth.ErrNoTokenFound)
	}
	token, err := jwtauth.VerifyToken(m.auth, tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return ParseClaims(claims)
}
