// Package cache provides the read-through cache used for content lookups.
package cache

import (
	"context"
	"errors"
	"starter_api/internal/domain/model"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// ContentCache stores content keyed by the identifier it was fetched with.
type ContentCache interface {
	Get(ctx context.Context, key string) (*model.Content, error)
	Set(ctx context.Context, key string, content *model.Content) error
	Invalidate(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Nop caches nothing. Every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) (*model.Content, error) { return nil, ErrMiss }
func (Nop) Set(context.Context, string, *model.Content) error   { return nil }
func (Nop) Invalidate(context.Context, ...string) error         { return nil }
func (Nop) Ping(context.Context) error                          { return nil }
func (Nop) Close() error                                        { return nil }
