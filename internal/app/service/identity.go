package service

import (
	"context"
	"errors"
	"starter_api/internal/common"
	"starter_api/internal/domain/model"
	"starter_api/internal/domain/repository"
	"strconv"
)

var (
	errUserNotFound    = common.WithMessage(common.ErrNotFound, "User not found")
	errContentNotFound = common.WithMessage(common.ErrNotFound, "Content not found")
)

// ResolveUser finds a user by numeric id first and by username second.
func ResolveUser(ctx context.Context, users repository.UserRepository, identifier string) (*model.User, error) {
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		user, err := users.FindByID(ctx, id)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	user, err := users.FindByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ResolveContent finds content by numeric id first and by slug second.
func ResolveContent(ctx context.Context, contents repository.ContentRepository, identifier string) (*model.Content, error) {
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		content, err := contents.FindByID(ctx, id)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	content, err := contents.FindBySlug(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errContentNotFound
		}
		return nil, err
	}
	return content, nil
}

// canModify reports whether actor may change a resource owned by ownerID.
func canModify(actor *model.User, ownerID int64) bool {
	return actor != nil && (actor.ID == ownerID || actor.Superuser)
}
