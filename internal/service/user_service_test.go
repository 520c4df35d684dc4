package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
)

type mockUserAPI struct {
	users     []models.User
	listCalls int
	toggleErr error
	disabled  []int64
	enabled   []int64
}

func (m *mockUserAPI) ListUsers(ctx context.Context, filter api.UserFilter) ([]models.User, error) {
	m.listCalls++
	return cloneUsers(m.users), nil
}

func (m *mockUserAPI) DisableUser(ctx context.Context, token string, id int64) error {
	if m.toggleErr != nil {
		return m.toggleErr
	}
	m.disabled = append(m.disabled, id)
	return nil
}

func (m *mockUserAPI) EnableUser(ctx context.Context, token string, id int64) error {
	if m.toggleErr != nil {
		return m.toggleErr
	}
	m.enabled = append(m.enabled, id)
	return nil
}

func newUsersFixture(t *testing.T) (*mockUserAPI, *UserService) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	active := true
	mock := &mockUserAPI{users: []models.User{
		{ID: 1, Username: "admin", Role: models.RoleAdmin, IsActive: &active},
		{ID: 2, Username: "ana", Role: models.RoleUser},
	}}
	return mock, NewUserService(mock, NewCacheService(ctx), time.Minute)
}

func TestUserService_ListIsCachedPerSession(t *testing.T) {
	mock, svc := newUsersFixture(t)
	ctx := context.Background()

	_, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)
	users, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 1, mock.listCalls)

	_, err = svc.List(ctx, "s2", api.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.listCalls)

	svc.Invalidate("s1")
	_, err = svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, mock.listCalls)
}

func TestUserService_SetActiveOptimistic(t *testing.T) {
	mock, svc := newUsersFixture(t)
	ctx := context.Background()

	_, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, "s1", "tok", 2, false))
	assert.Equal(t, []int64{2}, mock.disabled)

	users, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)
	assert.False(t, users[1].Active())
	assert.Equal(t, 1, mock.listCalls, "list must not be refetched after toggle")

	require.NoError(t, svc.SetActive(ctx, "s1", "tok", 2, true))
	users, _ = svc.List(ctx, "s1", api.UserFilter{})
	assert.True(t, users[1].Active())
}

func TestUserService_SetActiveRollsBack(t *testing.T) {
	mock, svc := newUsersFixture(t)
	ctx := context.Background()
	mock.toggleErr = apperror.FromStatus(403, "Admins only")

	_, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)

	err = svc.SetActive(ctx, "s1", "tok", 1, false)
	assert.True(t, apperror.IsForbidden(err))

	users, _ := svc.List(ctx, "s1", api.UserFilter{})
	assert.True(t, users[0].Active())
}

// slowFailingUserAPI держит отключение пользователя 1 до release и затем отвечает ошибкой.
type slowFailingUserAPI struct {
	*mockUserAPI
	started chan struct{}
	release chan struct{}
}

func (m *slowFailingUserAPI) DisableUser(ctx context.Context, token string, id int64) error {
	if id == 1 {
		close(m.started)
		<-m.release
		return apperror.FromStatus(500, "boom")
	}
	return nil
}

func TestUserService_RollbackKeepsConcurrentToggle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	active := true
	mock := &slowFailingUserAPI{
		mockUserAPI: &mockUserAPI{users: []models.User{
			{ID: 1, Username: "admin", Role: models.RoleAdmin, IsActive: &active},
			{ID: 2, Username: "ana", Role: models.RoleUser, IsActive: &active},
		}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewUserService(mock, NewCacheService(ctx), time.Minute)

	_, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)

	failed := make(chan error, 1)
	go func() { failed <- svc.SetActive(ctx, "s1", "tok", 1, false) }()
	<-mock.started

	require.NoError(t, svc.SetActive(ctx, "s1", "tok", 2, false))
	close(mock.release)
	require.Error(t, <-failed)

	users, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)
	assert.True(t, users[0].Active(), "failed toggle is rolled back")
	assert.False(t, users[1].Active(), "concurrent toggle survives the rollback")
}

func TestUserService_ListReturnsCopies(t *testing.T) {
	_, svc := newUsersFixture(t)
	ctx := context.Background()

	users, err := svc.List(ctx, "s1", api.UserFilter{})
	require.NoError(t, err)
	users[0].SetActive(false)
	users[0].Username = "changed"

	again, _ := svc.List(ctx, "s1", api.UserFilter{})
	assert.True(t, again[0].Active())
	assert.Equal(t, "admin", again[0].Username)
}

func TestCacheService_ExpiryAndPrefix(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cs := NewCacheService(ctx)
	now := time.Now()
	cs.now = func() time.Time { return now }

	cs.Set(UsersCacheKey("s1", "role=admin"), 1, time.Minute)
	cs.Set(UsersCacheKey("s2", ""), 2, time.Minute)

	touched := 0
	cs.UpdateByPrefix(UsersCachePrefix("s1"), func(key string, value interface{}) interface{} {
		touched++
		return value.(int) + 10
	})
	assert.Equal(t, 1, touched)
	v, ok := cs.Get(UsersCacheKey("s1", "role=admin"))
	require.True(t, ok)
	assert.Equal(t, 11, v)

	cs.InvalidateSessionCache("s1")
	_, ok = cs.Get(UsersCacheKey("s1", "role=admin"))
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cs.Get(UsersCacheKey("s2", ""))
	assert.False(t, ok)
	cs.evictExpired()
	assert.Equal(t, 0, cs.Len())

	calls := 0
	v, err := cs.GetOrSet(ctx, "k", time.Minute, func(ctx context.Context) (interface{}, error) {
		calls++
		return "v", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	_, _ = cs.GetOrSet(ctx, "k", time.Minute, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("unused")
	})
	assert.Equal(t, 1, calls)
}
