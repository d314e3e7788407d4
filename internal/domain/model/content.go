package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

type SlugStrategy string

const (
	// SlugSimple lower-cases the title and replaces spaces with hyphens.
	SlugSimple SlugStrategy = "simple"
	// SlugUnicode transliterates and strips punctuation using gosimple/slug.
	SlugUnicode SlugStrategy = "unicode"
)

// Make derives a slug from title.
func (s SlugStrategy) Make(title string) string {
	if s == SlugUnicode {
		return slug.Make(title)
	}
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

type Content struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Text        string    `json:"text"`
	Published   bool      `json:"published"`
	CreatedTime time.Time `json:"created_time"`
	Tags        Tags      `json:"tags"`
	UserID      int64     `json:"user_id"`
}

// CanBeModifiedBy reports whether u owns the content or is a superuser.
func (c *Content) CanBeModifiedBy(u *User) bool {
	if c == nil || u == nil {
		return false
	}
	return c.UserID == u.ID || u.Superuser
}

// Tags is stored as a comma-joined string and exposed as a list.
type Tags []string

const tagSeparator = ","

// ParseTags splits a stored tag string. The empty string yields no tags.
func ParseTags(s string) Tags {
	if s == "" {
		return Tags{}
	}
	return Tags(strings.Split(s, tagSeparator))
}

// String returns the at-rest representation.
func (t Tags) String() string {
	return strings.Join(t, tagSeparator)
}

func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON accepts either a list of strings or a comma-joined string.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*t = Tags(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return errors.New("tags must be a list of strings or a comma separated string")
	}
	*t = ParseTags(joined)
	return nil
}
