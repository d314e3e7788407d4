package security

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// HashedPassword holds a bcrypt digest. The zero value matches no password.
// Values come from HashPassword or from scanning a stored digest.
type HashedPassword struct {
	digest string
}

// HashPassword will generate a salted password hash
func HashPassword(password string) (HashedPassword, error) {
	if password == "" {
		return HashedPassword{}, ErrEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return HashedPassword{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return HashedPassword{digest: string(h)}, nil
}

// Verify reports whether password matches the digest. Malformed digests never match.
func (h HashedPassword) Verify(password string) bool {
	if h.digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.digest), []byte(password)) == nil
}

func (h HashedPassword) IsZero() bool {
	return h.digest == ""
}

func (h HashedPassword) String() string {
	return "[redacted]"
}

func (h HashedPassword) MarshalJSON() ([]byte, error) {
	return nil, errors.New("security: hashed password is not serializable")
}

// Value implements driver.Valuer.
func (h HashedPassword) Value() (driver.Value, error) {
	if h.digest == "" {
		return nil, ErrEmptyPassword
	}
	return h.digest, nil
}

// Scan implements sql.Scanner.
func (h *HashedPassword) Scan(src any) error {
	switch v := src.(type) {
	case string:
		h.digest = v
	case []byte:
		h.digest = string(v)
	case nil:
		h.digest = ""
	default:
		return fmt.Errorf("security: cannot scan %T into HashedPassword", src)
	}
	return nil
}
