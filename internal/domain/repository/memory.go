package repository

import (
	"context"
	"fmt"
	"sort"
	"starter_api/internal/common"
	"starter_api/internal/common/security"
	"starter_api/internal/domain/model"
	"sync"
)

// MemoryManager keeps users and contents in process memory. Units of work are
// serialized and applied to a copy of the state that replaces the original on
// success.
type MemoryManager struct {
	mu    sync.Mutex
	state *memState
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{state: newMemState()}
}

func (m *MemoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := m.state.clone()
	if err := fn(ctx, work); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *MemoryManager) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryManager) Close() error {
	return nil
}

type memState struct {
	users         map[int64]model.User
	contents      map[int64]model.Content
	lastUserID    int64
	lastContentID int64
}

func newMemState() *memState {
	return &memState{
		users:    map[int64]model.User{},
		contents: map[int64]model.Content{},
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		users:         make(map[int64]model.User, len(s.users)),
		contents:      make(map[int64]model.Content, len(s.contents)),
		lastUserID:    s.lastUserID,
		lastContentID: s.lastContentID,
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	for id, content := range s.contents {
		c.contents[id] = copyContent(content)
	}
	return c
}

func (s *memState) Users() UserRepository       { return memUsers{s} }
func (s *memState) Contents() ContentRepository { return memContents{s} }

func copyContent(c model.Content) model.Content {
	if c.Tags != nil {
		c.Tags = append(model.Tags{}, c.Tags...)
	}
	return c
}

type memUsers struct{ s *memState }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return fmt.Errorf("user with username %q already exists: %w", user.Username, common.ErrConflict)
		}
	}
	r.s.lastUserID++
	user.ID = r.s.lastUserID
	r.s.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memUsers) List(_ context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id int64, password security.HashedPassword) error {
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Password = password
	r.s.users[id] = u
	return nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.users, id)
	for cid, c := range r.s.contents {
		if c.UserID == id {
			delete(r.s.contents, cid)
		}
	}
	return nil
}

type memContents struct{ s *memState }

func (r memContents) Create(_ context.Context, content *model.Content) error {
	if _, ok := r.s.users[content.UserID]; !ok {
		return fmt.Errorf("owner %d: %w", content.UserID, common.ErrNotFound)
	}
	r.s.lastContentID++
	content.ID = r.s.lastContentID
	r.s.contents[content.ID] = copyContent(*content)
	return nil
}

func (r memContents) FindByID(_ context.Context, id int64) (*model.Content, error) {
	c, ok := r.s.contents[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c = copyContent(c)
	return &c, nil
}

func (r memContents) FindBySlug(ctx context.Context, slug string) (*model.Content, error) {
	all, _ := r.List(ctx)
	for _, c := range all {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memContents) List(_ context.Context) ([]*model.Content, error) {
	return r.filter(func(model.Content) bool { return true }), nil
}

func (r memContents) ListByUser(_ context.Context, userID int64) ([]*model.Content, error) {
	return r.filter(func(c model.Content) bool { return c.UserID == userID }), nil
}

func (r memContents) filter(keep func(model.Content) bool) []*model.Content {
	contents := []*model.Content{}
	for _, c := range r.s.contents {
		if keep(c) {
			c = copyContent(c)
			contents = append(contents, &c)
		}
	}
	sort.Slice(contents, func(i, j int) bool { return contents[i].ID < contents[j].ID })
	return contents
}

func (r memContents) Update(_ context.Context, content *model.Content) error {
	stored, ok := r.s.contents[content.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Title = content.Title
	stored.Text = content.Text
	stored.Published = content.Published
	stored.Tags = content.Tags
	r.s.contents[content.ID] = copyContent(stored)
	return nil
}

func (r memContents) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.contents[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.contents, id)
	return nil
}
