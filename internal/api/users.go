package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
)

// UserFilter фильтры GET /users/all.
type UserFilter struct {
	Role     string `form:"role"`
	Email    string `form:"email"`
	Username string `form:"username"`
	IsActive string `form:"is_active"`
}

func (f UserFilter) values() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			q.Set(key, value)
		}
	}
	set("role", f.Role)
	set("email", f.Email)
	set("username", f.Username)
	set("is_active", f.IsActive)
	return q
}

// Key строковый ключ фильтра для кэша.
func (f UserFilter) Key() string {
	return f.values().Encode()
}

// ListUsers возвращает всех пользователей.
func (c *Client) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, request{
		op:     "users.list",
		method: http.MethodGet,
		path:   "/users/all",
		query:  filter.values(),
	}, &users)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// DisableUser мягко отключает учётку (is_active = false).
func (c *Client) DisableUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, request{
		op:     "users.disable",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/users/%d/disable", id),
		token:  token,
	}, nil)
}

// EnableUser включает учётку (is_active = true).
func (c *Client) EnableUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, request{
		op:     "users.enable",
		method: http.MethodPatch,
		path:   fmt.Sprintf("/users/%d/enable", id),
		token:  token,
	}, nil)
}
