package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
	"github.com/ignatzorin/proposals-console/internal/session"
	"github.com/ignatzorin/proposals-console/internal/view"
)

func newEngine(t *testing.T, s *session.Session) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	r.HTMLRender = renderer

	r.Use(func(c *gin.Context) {
		if s != nil {
			c.Set(ContextSessionKey, s)
		}
		c.Next()
	})
	return r
}

func signedIn(role string) *session.Session {
	s := session.New()
	s.SignIn("tok", &models.User{ID: 1, Username: "u", Role: role})
	return s
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous page redirects home", func(t *testing.T) {
		r := newEngine(t, nil)
		r.GET("/proposals", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proposals", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("anonymous api gets 401", func(t *testing.T) {
		r := newEngine(t, nil)
		r.GET("/api/proposals", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/proposals", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("signed in passes", func(t *testing.T) {
		r := newEngine(t, signedIn(models.RoleUser))
		r.GET("/proposals", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proposals", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	handler := func(c *gin.Context) { c.String(http.StatusOK, "ok") }

	r := newEngine(t, signedIn(models.RoleModerator))
	r.POST("/users/:id/disable", RequireAdmin(), handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/1/disable", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "403 - Forbidden")

	r = newEngine(t, signedIn(models.RoleAdmin))
	r.POST("/users/:id/disable", RequireAdmin(), handler)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/1/disable", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r = newEngine(t, nil)
	r.POST("/users/:id/disable", RequireAdmin(), handler)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/1/disable", nil))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestIDValidator(t *testing.T) {
	r := newEngine(t, nil)
	r.GET("/proposals/:id", IDValidator("id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": IDFrom(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proposals/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42}`, w.Body.String())

	for _, bad := range []string{"abc", "0", "-3"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proposals/"+bad, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, bad)
		assert.Contains(t, w.Body.String(), "404 - Page Not Found")
	}
}

func TestErrorHandler(t *testing.T) {
	r := newEngine(t, nil)
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(apperror.New(apperror.ErrCodeUnavailable, "dial tcp 10.0.0.1:5000: refused"))
	})
	r.GET("/api/boom", func(c *gin.Context) {
		_ = c.Error(apperror.New(apperror.ErrCodeUnavailable, "dial tcp 10.0.0.1:5000: refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Oops!")
	assert.NotContains(t, w.Body.String(), "10.0.0.1")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "BACKEND_UNAVAILABLE")
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

type recordingObserver struct {
	route  *string
	status *int
}

func (o recordingObserver) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	*o.route = route
	*o.status = status
}

func TestRequestIDAndLogger(t *testing.T) {
	var gotRoute string
	var gotStatus int

	r := newEngine(t, nil)
	r.Use(RequestID(), RequestLogger(recordingObserver{route: &gotRoute, status: &gotStatus}))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	assert.Equal(t, "/health", gotRoute)
	assert.Equal(t, http.StatusOK, gotStatus)
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(t, nil)
	api := r.Group("/api", CORSMiddleware([]string{"http://localhost:8080"}))
	api.OPTIONS("/proposals", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/api/proposals", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))

	assert.False(t, OriginAllowed("http://evil.example", []string{"http://localhost:8080"}))
	assert.False(t, OriginAllowed("", []string{""}))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(t, nil)
	r.Use(RateLimitMiddleware(2, time.Minute))
	handler := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/login", handler)
	r.POST("/login", handler)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Oops!")
	assert.Contains(t, w.Body.String(), "Too many attempts")

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	// Чтение формы после исчерпания лимита по-прежнему доступно
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
