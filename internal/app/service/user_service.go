package service

import (
	"context"
	"errors"
	"fmt"
	"starter_api/internal/common"
	"starter_api/internal/common/security"
	"starter_api/internal/domain/model"
	"starter_api/internal/domain/repository"
	"starter_api/internal/platform/cache"
	"starter_api/internal/platform/logging"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	errUsernameTaken        = common.WithMessage(common.ErrConflict, "Username already registered")
	errPasswordMismatch     = common.WithMessage(common.ErrValidation, "Passwords don't match")
	errNotEnoughPermissions = common.WithMessage(common.ErrForbidden, "You can't update this user password")
	errCannotDeleteYourself = common.WithMessage(common.ErrForbidden, "Users can't delete themselves")
)

type UserService struct {
	store repository.Manager
	cache cache.ContentCache
	log   logging.Logger
}

// NewUserService returns a UserService. c is the content cache evicted when a
// user and their contents are deleted; nil disables eviction.
func NewUserService(store repository.Manager, c cache.ContentCache, log logging.Logger) *UserService {
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &UserService{store: store, cache: c, log: log}
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Superuser bool   `json:"superuser"`
	Disabled  bool   `json:"disabled"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required),
	)
}

type UpdatePasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (r UpdatePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

func validationError(err error) error {
	return common.WithMessage(common.ErrValidation, err.Error())
}

// List returns every user with their contents.
func (s *UserService) List(ctx context.Context) ([]*UserResponse, error) {
	var resp []*UserResponse
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		users, err := store.Users().List(ctx)
		if err != nil {
			return err
		}
		contents, err := store.Contents().List(ctx)
		if err != nil {
			return err
		}

		byOwner := make(map[int64][]*model.Content)
		for _, c := range contents {
			byOwner[c.UserID] = append(byOwner[c.UserID], c)
		}
		resp = make([]*UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, NewUserResponse(u, byOwner[u.ID]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("userService.List: %w", err)
	}
	return resp, nil
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("userService.Create: %w", err)
	}
	user := &model.User{
		Username:  req.Username,
		Password:  hash,
		Superuser: req.Superuser,
		Disabled:  req.Disabled,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		_, err := store.Users().FindByUsername(ctx, req.Username)
		if err == nil {
			return errUsernameTaken
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return store.Users().Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, errUsernameTaken
		}
		return nil, fmt.Errorf("userService.Create: %w", err)
	}
	return NewUserResponse(user, nil), nil
}

// Get resolves identifier as an id or a username.
func (s *UserService) Get(ctx context.Context, identifier string) (*UserResponse, error) {
	var resp *UserResponse
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		user, err := ResolveUser(ctx, store.Users(), identifier)
		if err != nil {
			return err
		}
		resp, err = withContents(ctx, store, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("userService.Get: %w", err)
	}
	return resp, nil
}

// Profile renders the given, already authenticated user.
func (s *UserService) Profile(ctx context.Context, user *model.User) (*UserResponse, error) {
	var resp *UserResponse
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		resp, err = withContents(ctx, store, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("userService.Profile: %w", err)
	}
	return resp, nil
}

func withContents(ctx context.Context, store repository.Store, user *model.User) (*UserResponse, error) {
	contents, err := store.Contents().ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return NewUserResponse(user, contents), nil
}

// UpdatePassword sets a new password for userID. Only the user or a superuser
// may do so.
func (s *UserService) UpdatePassword(ctx context.Context, actor *model.User, userID int64, req UpdatePasswordRequest) (*UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	if req.Password != req.PasswordConfirm {
		return nil, errPasswordMismatch
	}
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("userService.UpdatePassword: %w", err)
	}

	var resp *UserResponse
	err = s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		user, err := store.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return errUserNotFound
			}
			return err
		}
		if !canModify(actor, user.ID) {
			return errNotEnoughPermissions
		}

		if err := store.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		user.Password = hash
		resp, err = withContents(ctx, store, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("userService.UpdatePassword: %w", err)
	}
	return resp, nil
}

// Delete removes userID and their contents, evicting the contents from the
// cache once committed. Nobody may delete themselves.
func (s *UserService) Delete(ctx context.Context, actor *model.User, userID int64) error {
	var owned []*model.Content
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		user, err := store.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return errUserNotFound
			}
			return err
		}
		if actor != nil && user.ID == actor.ID {
			return errCannotDeleteYourself
		}
		if owned, err = store.Contents().ListByUser(ctx, user.ID); err != nil {
			return err
		}
		return store.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("userService.Delete: %w", err)
	}

	var keys []string
	for _, c := range owned {
		keys = append(keys, contentKeys(c)...)
	}
	invalidateContent(ctx, s.cache, s.log, keys...)
	return nil
}
