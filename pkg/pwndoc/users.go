package pwndoc

import (
	"context"

	"github.com/pkg/errors"
)

// userService implements the UserService interface
type userService struct {
	client *Client
}

// List retrieves all users (admin only)
func (s *userService) List(ctx context.Context) ([]*User, error) {
	raw, err := s.client.Get(ctx, "/users")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	var users []*User
	if err := unmarshalDatas(raw, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get retrieves a user by username
func (s *userService) Get(ctx context.Context, username string) (*User, error) {
	raw, err := s.client.Get(ctx, "/users/"+username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}

	user := &User{}
	if err := unmarshalDatas(raw, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Current retrieves the authenticated user
func (s *userService) Current(ctx context.Context) (*User, error) {
	raw, err := s.client.Get(ctx, "/users/me")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current user")
	}

	user := &User{}
	if err := unmarshalDatas(raw, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a user (admin only)
func (s *userService) Create(ctx context.Context, fields map[string]interface{}) (*User, error) {
	raw, err := s.client.Post(ctx, "/users", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	user := &User{}
	if err := unmarshalDatas(raw, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update updates a user (admin only)
func (s *userService) Update(ctx context.Context, userID string, fields map[string]interface{}) (*User, error) {
	raw, err := s.client.Put(ctx, "/users/"+userID, fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}

	user := &User{}
	if err := unmarshalDatas(raw, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateCurrent updates the authenticated user's profile
func (s *userService) UpdateCurrent(ctx context.Context, fields map[string]interface{}) (*User, error) {
	raw, err := s.client.Put(ctx, "/users/me", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update current user")
	}

	user := &User{}
	if err := unmarshalDatas(raw, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Reviewers retrieves all users with review permission
func (s *userService) Reviewers(ctx context.Context) ([]*User, error) {
	raw, err := s.client.Get(ctx, "/users/reviewers")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviewers")
	}

	var users []*User
	if err := unmarshalDatas(raw, &users); err != nil {
		return nil, err
	}
	return users, nil
}
