package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/models"
)

// UserAPI описывает зависимости UserService от клиента бэкенда.
type UserAPI interface {
	ListUsers(ctx context.Context, filter api.UserFilter) ([]models.User, error)
	DisableUser(ctx context.Context, token string, id int64) error
	EnableUser(ctx context.Context, token string, id int64) error
}

// UserService список пользователей и включение/отключение учёток.
// Загруженный список кэшируется на сессию, чтобы переключение отражалось сразу,
// без повторного запроса списка.
type UserService struct {
	api   UserAPI
	cache *CacheService
	ttl   time.Duration
}

// NewUserService создаёт сервис пользователей.
func NewUserService(userAPI UserAPI, cache *CacheService, ttl time.Duration) *UserService {
	return &UserService{
		api:   userAPI,
		cache: cache,
		ttl:   ttl,
	}
}

// List возвращает пользователей из кэша сессии или с бэкенда.
func (s *UserService) List(ctx context.Context, sessionID string, filter api.UserFilter) ([]models.User, error) {
	value, err := s.cache.GetOrSet(ctx, UsersCacheKey(sessionID, filter.Key()), s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.api.ListUsers(ctx, filter)
	})
	if err != nil {
		return nil, fmt.Errorf("user service: list: %w", err)
	}
	return cloneUsers(value.([]models.User)), nil
}

// SetActive оптимистично меняет флаг в закэшированных списках и вызывает бэкенд.
// При ошибке откатывается только флаг пользователя id, остальные изменения списков сохраняются.
func (s *UserService) SetActive(ctx context.Context, sessionID, token string, id int64, active bool) error {
	prefix := UsersCachePrefix(sessionID)
	previous := make(map[string]*bool)
	s.cache.UpdateByPrefix(prefix, func(key string, value interface{}) interface{} {
		users := value.([]models.User)
		if state, ok := activeState(users, id); ok {
			previous[key] = state
		}
		return withActive(users, id, &active)
	})

	var err error
	if active {
		err = s.api.EnableUser(ctx, token, id)
	} else {
		err = s.api.DisableUser(ctx, token, id)
	}
	if err != nil {
		s.cache.UpdateByPrefix(prefix, func(key string, value interface{}) interface{} {
			state, ok := previous[key]
			if !ok {
				return value
			}
			return withActive(value.([]models.User), id, state)
		})
		return fmt.Errorf("user service: set active %d: %w", id, err)
	}

	logger.L().WithFields(logrus.Fields{
		"user_id": id,
		"active":  active,
	}).Info("user activity changed")
	return nil
}

// Invalidate сбрасывает кэш списков сессии (после создания пользователя или выхода).
func (s *UserService) Invalidate(sessionID string) {
	s.cache.InvalidateSessionCache(sessionID)
}

func cloneUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		if u.IsActive != nil {
			u.SetActive(*u.IsActive)
		}
		out[i] = u
	}
	return out
}

// activeState флаг пользователя id в списке; nil значит бэкенд флаг не прислал.
func activeState(users []models.User, id int64) (*bool, bool) {
	for _, u := range users {
		if u.ID == id {
			if u.IsActive == nil {
				return nil, true
			}
			v := *u.IsActive
			return &v, true
		}
	}
	return nil, false
}

func withActive(users []models.User, id int64, active *bool) []models.User {
	out := cloneUsers(users)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if active == nil {
			out[i].IsActive = nil
		} else {
			out[i].SetActive(*active)
		}
	}
	return out
}
