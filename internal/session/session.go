package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/proposals-console/internal/models"
)

// ErrNotFound сессии нет в хранилище (истекла или удалена).
var ErrNotFound = errors.New("session: сессия не найдена")

// Session состояние аутентификации одного браузера: токен бэкенда и текущий пользователь.
type Session struct {
	ID        string       `json:"id"`
	Token     string       `json:"token,omitempty"`
	User      *models.User `json:"user,omitempty"`
	CheckedAt time.Time    `json:"checked_at"`
	Flash     string       `json:"flash,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// New создаёт анонимную сессию.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// IsAuthenticated сообщает, что в сессии есть токен и пользователь.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// IsAdmin сообщает, что текущий пользователь админ.
func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

// SignIn сохраняет токен и пользователя.
func (s *Session) SignIn(token string, user *models.User) {
	s.Token = token
	s.User = user
	s.CheckedAt = time.Now()
}

// Clear возвращает сессию в анонимное состояние.
func (s *Session) Clear() {
	s.Token = ""
	s.User = nil
	s.CheckedAt = time.Time{}
}

// PopFlash возвращает одноразовое сообщение и стирает его.
func (s *Session) PopFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}

// clone глубокая копия, чтобы хранилище в памяти не делило указатели с запросами.
func (s *Session) clone() Session {
	c := *s
	if s.User != nil {
		u := *s.User
		if s.User.IsActive != nil {
			active := *s.User.IsActive
			u.IsActive = &active
		}
		c.User = &u
	}
	return c
}

// Store хранилище сессий.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
