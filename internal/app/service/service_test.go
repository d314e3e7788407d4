package service

import (
	"context"
	"starter_api/internal/common/security"
	"starter_api/internal/domain/model"
	"starter_api/internal/domain/repository"
	"starter_api/internal/platform/cache"
	"starter_api/internal/platform/logging"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *repository.MemoryManager
	tokens   *security.TokenManager
	auth     *AuthService
	users    *UserService
	contents *ContentService
	cache    *mapCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := security.NewTokenManager([]byte("test-secret"), "HS256", 30*time.Minute, time.Hour)
	require.NoError(t, err)

	store := repository.NewMemoryManager()
	c := newMapCache()
	return &fixture{
		store:    store,
		tokens:   tokens,
		auth:     NewAuthService(store, tokens),
		users:    NewUserService(store, c, logging.Discard()),
		contents: NewContentService(store, c, model.SlugSimple, logging.Discard()),
		cache:    c,
	}
}

func (f *fixture) createUser(t *testing.T, username, password string, superuser bool) *model.User {
	t.Helper()
	resp, err := f.users.Create(context.Background(), CreateUserRequest{Username: username, Password: password, Superuser: superuser})
	require.NoError(t, err)
	user, err := f.auth.LookupUser(context.Background(), resp.Username)
	require.NoError(t, err)
	return user
}

type mapCache struct {
	mu          sync.Mutex
	items       map[string]model.Content
	gets        int
	hits        int
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]model.Content{}}
}

func (c *mapCache) Get(_ context.Context, key string) (*model.Content, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	item, ok := c.items[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	c.hits++
	return &item, nil
}

func (c *mapCache) Set(_ context.Context, key string, content *model.Content) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = *content
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.invalidated = append(c.invalidated, keys...)
	return nil
}

func (c *mapCache) Ping(context.Context) error { return nil }
func (c *mapCache) Close() error               { return nil }
