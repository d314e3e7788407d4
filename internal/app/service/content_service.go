package service

import (
	"context"
	"errors"
	"fmt"
	"starter_api/internal/common"
	"starter_api/internal/domain/model"
	"starter_api/internal/domain/repository"
	"starter_api/internal/platform/cache"
	"starter_api/internal/platform/logging"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errNotContentOwner = common.WithMessage(common.ErrForbidden, "You don't own this content")

type ContentService struct {
	store repository.Manager
	cache cache.ContentCache
	slugs model.SlugStrategy
	log   logging.Logger
	now   func() time.Time
}

func NewContentService(store repository.Manager, c cache.ContentCache, slugs model.SlugStrategy, log logging.Logger) *ContentService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ContentService{store: store, cache: c, slugs: slugs, log: log, now: time.Now}
}

type CreateContentRequest struct {
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Published bool       `json:"published"`
	Tags      model.Tags `json:"tags"`
}

func (r CreateContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Text, validation.Required),
	)
}

// UpdateContentRequest holds the fields of a partial update. Nil fields are
// left untouched.
type UpdateContentRequest struct {
	Title     *string     `json:"title"`
	Text      *string     `json:"text"`
	Published *bool       `json:"published"`
	Tags      *model.Tags `json:"tags"`
}

func (r UpdateContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.By(notBlank)),
	)
}

func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	case string:
		s = v
	default:
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func (s *ContentService) List(ctx context.Context) ([]*model.Content, error) {
	var contents []*model.Content
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		contents, err = store.Contents().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("contentService.List: %w", err)
	}
	return contents, nil
}

// Get resolves identifier as an id or a slug, reading through the cache.
func (s *ContentService) Get(ctx context.Context, identifier string) (*model.Content, error) {
	cached, err := s.cache.Get(ctx, identifier)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn(ctx, "content cache read failed", "key", identifier, "error", err)
	}

	var content *model.Content
	err = s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		content, err = ResolveContent(ctx, store.Contents(), identifier)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("contentService.Get: %w", err)
	}

	if err := s.cache.Set(ctx, identifier, content); err != nil {
		s.log.Warn(ctx, "content cache write failed", "key", identifier, "error", err)
	}
	return content, nil
}

// Create stores new content owned by actor. The slug is derived from the title.
func (s *ContentService) Create(ctx context.Context, actor *model.User, req CreateContentRequest) (*model.Content, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	tags := req.Tags
	if tags == nil {
		tags = model.Tags{}
	}
	content := &model.Content{
		Title:       req.Title,
		Slug:        s.slugs.Make(req.Title),
		Text:        req.Text,
		Published:   req.Published,
		CreatedTime: s.now().UTC(),
		Tags:        tags,
		UserID:      actor.ID,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		return store.Contents().Create(ctx, content)
	})
	if err != nil {
		return nil, fmt.Errorf("contentService.Create: %w", err)
	}
	invalidateContent(ctx, s.cache, s.log, strconv.FormatInt(content.ID, 10))
	return content, nil
}

// Update merges the submitted fields into the content. Only the owner or a
// superuser may do so. The slug is kept.
func (s *ContentService) Update(ctx context.Context, actor *model.User, id int64, req UpdateContentRequest) (*model.Content, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	var content *model.Content
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		content, err = s.ownedContent(ctx, store, actor, id)
		if err != nil {
			return err
		}

		if req.Title != nil {
			content.Title = *req.Title
		}
		if req.Text != nil {
			content.Text = *req.Text
		}
		if req.Published != nil {
			content.Published = *req.Published
		}
		if req.Tags != nil {
			content.Tags = *req.Tags
		}
		return store.Contents().Update(ctx, content)
	})
	if err != nil {
		return nil, fmt.Errorf("contentService.Update: %w", err)
	}
	invalidateContent(ctx, s.cache, s.log, contentKeys(content)...)
	return content, nil
}

func (s *ContentService) Delete(ctx context.Context, actor *model.User, id int64) error {
	var content *model.Content
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		content, err = s.ownedContent(ctx, store, actor, id)
		if err != nil {
			return err
		}
		return store.Contents().Delete(ctx, content.ID)
	})
	if err != nil {
		return fmt.Errorf("contentService.Delete: %w", err)
	}
	invalidateContent(ctx, s.cache, s.log, contentKeys(content)...)
	return nil
}

func (s *ContentService) ownedContent(ctx context.Context, store repository.Store, actor *model.User, id int64) (*model.Content, error) {
	content, err := store.Contents().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errContentNotFound
		}
		return nil, err
	}
	if !content.CanBeModifiedBy(actor) {
		return nil, errNotContentOwner
	}
	return content, nil
}

// contentKeys lists the identifiers content can be cached under.
func contentKeys(c *model.Content) []string {
	return []string{strconv.FormatInt(c.ID, 10), c.Slug}
}

func invalidateContent(ctx context.Context, c cache.ContentCache, log logging.Logger, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.Invalidate(ctx, keys...); err != nil {
		log.Warn(ctx, "content cache invalidation failed", "keys", keys, "error", err)
	}
}
