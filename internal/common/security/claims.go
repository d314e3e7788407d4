package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope is the purpose a token was issued for.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims is the decoded content of a verified token.
type Claims struct {
	Subject   string
	Scope     Scope
	Fresh     bool
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseClaims extracts Claims from a decoded claim set. The subject, scope and
// expiry claims are required.
func ParseClaims(claims jwt.MapClaims) (*Claims, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: sub claim is missing or not a string", ErrInvalidCredentials)
	}

	scope, ok := claims["scope"].(string)
	if !ok || (Scope(scope) != ScopeAccess && Scope(scope) != ScopeRefresh) {
		return nil, fmt.Errorf("%w: scope claim is missing or unknown", ErrInvalidCredentials)
	}

	exp, err := timeClaim(claims, "exp")
	if err != nil || exp.IsZero() {
		return nil, fmt.Errorf("%w: exp claim is missing or invalid", ErrInvalidCredentials)
	}
	iat, _ := timeClaim(claims, "iat")

	fresh, _ := claims["fresh"].(bool)
	jti, _ := claims["jti"].(string)

	return &Claims{
		Subject:   sub,
		Scope:     Scope(scope),
		Fresh:     fresh,
		ID:        jti,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}

// timeClaim reads a date claim. jwtauth hands back time.Time values, raw JSON
// decoding yields numbers.
func timeClaim(claims jwt.MapClaims, key string) (time.Time, error) {
	switch v := claims[key].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case int64:
		return time.Unix(v, 0), nil
	case float64, json.Number:
		d, err := (jwt.MapClaims{"exp": v}).GetExpirationTime()
		if err != nil || d == nil {
			return time.Time{}, fmt.Errorf("invalid %s claim", key)
		}
		return d.Time, nil
	default:
		return time.Time{}, fmt.Errorf("invalid type %T for %s claim", v, key)
	}
}
