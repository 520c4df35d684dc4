package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/dto"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
	"github.com/ignatzorin/proposals-console/internal/session"
)

// AuthAPI описывает зависимости AuthService от клиента бэкенда.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, token string, in api.RegisterRequest) (string, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

// AuthService ведёт состояние аутентификации в сессии браузера.
type AuthService struct {
	api          AuthAPI
	refreshEvery time.Duration
	now          func() time.Time
}

// NewAuthService создаёт сервис аутентификации.
// refreshEvery задаёт, как часто Restore перепроверяет токен через /auth/me.
func NewAuthService(authAPI AuthAPI, refreshEvery time.Duration) *AuthService {
	return &AuthService{
		api:          authAPI,
		refreshEvery: refreshEvery,
		now:          time.Now,
	}
}

// Login получает токен, загружает текущего пользователя и кладёт обоих в сессию.
// Если /auth/me после входа отвечает ошибкой, вход считается неудачным.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		if apperror.IsUnavailable(err) {
			return fmt.Errorf("auth service: %w", err)
		}
		return fmt.Errorf("auth service: %w", apperror.Wrap(err, apperror.ErrCodeUnauthorized, apperror.ErrInvalidCredentials.Message))
	}

	sess.SignIn(token, user)
	logger.L().WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user signed in")
	return nil
}

// Logout возвращает сессию в анонимное состояние.
func (s *AuthService) Logout(sess *session.Session) {
	sess.Clear()
}

// FetchCurrentUser запрашивает /auth/me по токену из сессии.
// Ответ бэкенда с ошибкой очищает сессию; сетевой сбой оставляет закэшированного пользователя.
func (s *AuthService) FetchCurrentUser(ctx context.Context, sess *session.Session) (*models.User, error) {
	if sess.Token == "" {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.api.Me(ctx, sess.Token)
	if err != nil {
		if apperror.IsUnavailable(err) {
			return sess.User, fmt.Errorf("auth service: %w", err)
		}
		logger.L().WithFields(logrus.Fields{"error": err.Error()}).Info("stored token rejected, clearing session")
		sess.Clear()
		return nil, fmt.Errorf("auth service: %w", apperror.Wrap(err, apperror.ErrCodeUnauthorized, apperror.ErrSessionExpired.Message))
	}

	sess.User = user
	sess.CheckedAt = s.now()
	return user, nil
}

// Restore перепроверяет токен сессии, когда прошло refreshEvery или истёк exp токена.
// Возвращает true, если сессия изменилась и её нужно сохранить.
func (s *AuthService) Restore(ctx context.Context, sess *session.Session) bool {
	if sess.Token == "" {
		return false
	}
	if sess.User != nil && !s.needsCheck(sess) {
		return false
	}

	_, err := s.FetchCurrentUser(ctx, sess)
	return err == nil || !apperror.IsUnavailable(err)
}

func (s *AuthService) needsCheck(sess *session.Session) bool {
	if s.now().Sub(sess.CheckedAt) >= s.refreshEvery {
		return true
	}
	return tokenExpired(sess.Token, s.now())
}

// tokenExpired читает exp без проверки подписи: секрет бэкенда консоли неизвестен.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time)
}

// Register заводит учётку. Анонимная регистрация всегда получает роль user,
// админ выбирает роль и запрос уходит с его токеном.
func (s *AuthService) Register(ctx context.Context, sess *session.Session, form dto.RegisterForm) (string, error) {
	role := models.RoleUser
	token := ""
	if sess.IsAdmin() {
		token = sess.Token
		if form.Role != "" {
			role = form.Role
		}
	}

	msg, err := s.api.Register(ctx, token, api.RegisterRequest{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
		Role:      role,
	})
	if err != nil {
		return "", fmt.Errorf("auth service: %w", err)
	}
	return msg, nil
}
