package service

import (
	"context"
	"starter_api/internal/common"
	"starter_api/internal/domain/model"
	"starter_api/internal/domain/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUser(t *testing.T) {
	f := newFixture(t)
	foo := f.createUser(t, "foo", "bar", false)
	f.createUser(t, "1", "x", false)
	other := f.createUser(t, "other", "x", false)
	numeric := f.createUser(t, "42", "x", false)

	tests := []struct {
		name       string
		identifier string
		wantID     int64
		wantErr    error
	}{
		{"by id", "3", other.ID, nil},
		{"id takes precedence over username", "1", foo.ID, nil},
		{"by username", "foo", foo.ID, nil},
		{"numeric username when no id matches", "42", numeric.ID, nil},
		{"unknown id", "99", 0, common.ErrNotFound},
		{"unknown username", "missing", 0, common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.store.WithinTx(context.Background(), func(ctx context.Context, s repository.Store) error {
				user, err := ResolveUser(ctx, s.Users(), tt.identifier)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.Equal(t, "User not found", common.PublicMessage(err))
					return nil
				}
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, user.ID)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestResolveContent(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "foo", "bar", false)

	first, err := f.contents.Create(context.Background(), owner, CreateContentRequest{Title: "hello test", Text: "x"})
	require.NoError(t, err)
	second, err := f.contents.Create(context.Background(), owner, CreateContentRequest{Title: "1", Text: "slug equals the first id"})
	require.NoError(t, err)
	require.Equal(t, "1", second.Slug)

	resolve := func(identifier string) (*model.Content, error) {
		var c *model.Content
		err := f.store.WithinTx(context.Background(), func(ctx context.Context, s repository.Store) error {
			var err error
			c, err = ResolveContent(ctx, s.Contents(), identifier)
			return err
		})
		return c, err
	}

	got, err := resolve("hello-test")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = resolve("1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "id 1 wins over the slug 1")

	got, err = resolve("2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = resolve("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Content not found", common.PublicMessage(err))
}

func TestCanModify(t *testing.T) {
	assert.True(t, canModify(&model.User{ID: 1}, 1))
	assert.True(t, canModify(&model.User{ID: 2, Superuser: true}, 1))
	assert.False(t, canModify(&model.User{ID: 2}, 1))
	assert.False(t, canModify(nil, 1))
}
