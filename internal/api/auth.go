package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
)

// RegisterRequest тело POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// Login обменивает email и пароль на access токен.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp models.LoginResponse
	err := c.do(ctx, request{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": strings.TrimSpace(email), "password": password},
	}, &resp)
	if err != nil {
		if apperror.IsUnauthorized(err) {
			return "", apperror.Wrap(err, apperror.ErrCodeUnauthorized, apperror.ErrInvalidCredentials.Message)
		}
		return "", err
	}
	if resp.AccessToken == "" {
		return "", apperror.New(apperror.ErrCodeUpstream, "login response without access_token")
	}
	return resp.AccessToken, nil
}

// Register создаёт учётку. token передаётся, когда пользователя заводит админ.
func (c *Client) Register(ctx context.Context, token string, in RegisterRequest) (string, error) {
	var resp models.MessageResponse
	err := c.do(ctx, request{
		op:     "auth.register",
		method: http.MethodPost,
		path:   "/auth/register",
		token:  token,
		body:   in,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me возвращает текущего пользователя по токену.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.ErrUnauthorized
	}
	var user models.User
	err := c.do(ctx, request{
		op:     "auth.me",
		method: http.MethodGet,
		path:   "/auth/me",
		token:  token,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
