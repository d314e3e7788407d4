package service

import "starter_api/internal/domain/model"

// UserResponse is the public view of a user. The password is never included.
type UserResponse struct {
	ID        int64            `json:"id"`
	Username  string           `json:"username"`
	Disabled  bool             `json:"disabled"`
	Superuser bool             `json:"superuser"`
	Contents  []*model.Content `json:"contents"`
}

func NewUserResponse(u *model.User, contents []*model.Content) *UserResponse {
	if contents == nil {
		contents = []*model.Content{}
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Disabled:  u.Disabled,
		Superuser: u.Superuser,
		Contents:  contents,
	}
}
