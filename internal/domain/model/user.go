package model

import (
	"starter_api/internal/common/security"
)

type User struct {
	ID        int64                   `json:"id"`
	Username  string                  `json:"username"`
	Password  security.HashedPassword `json:"-"` // Not exposed
	Superuser bool                    `json:"superuser"`
	Disabled  bool                    `json:"disabled"`
}

// IsActive reports whether the user may authenticate requests.
func (u *User) IsActive() bool {
	return u != nil && !u.Disabled
}
