package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/interface/http/response"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/service"
	"github.com/ignatzorin/proposals-console/internal/session"
	"github.com/ignatzorin/proposals-console/internal/view"
)

// Context ключи для gin.Context.
const (
	ContextSessionKey = "session"
	ContextIDKey      = "id"
)

// LoadSession достаёт сессию по cookie и перепроверяет токен через /auth/me.
func LoadSession(manager *session.Manager, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := manager.Load(c)

		if auth.Restore(c.Request.Context(), s) {
			if err := manager.Save(c, s); err != nil {
				logger.L().WithFields(logrus.Fields{"error": err.Error()}).Error("session save failed")
			}
		}

		c.Set(ContextSessionKey, s)
		c.Next()
	}
}

// SessionFrom возвращает сессию запроса; без LoadSession отдаёт анонимную.
func SessionFrom(c *gin.Context) *session.Session {
	if raw, ok := c.Get(ContextSessionKey); ok {
		if s, ok := raw.(*session.Session); ok {
			return s
		}
	}
	return session.New()
}

// RequireAuth пускает только вошедших; страницы перенаправляют на главную.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c).IsAuthenticated() {
			c.Next()
			return
		}

		if response.WantsJSON(c) || c.IsWebsocket() {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}

// RequireAdmin пускает только админов; остальным 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if s.IsAdmin() {
			c.Next()
			return
		}

		if !s.IsAuthenticated() {
			RequireAuth()(c)
			return
		}
		if response.WantsJSON(c) {
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}
		RenderError(c, http.StatusForbidden, "403 - Forbidden", "You need the admin role to do this.")
		c.Abort()
	}
}

// BasePage общие данные layout для текущего запроса.
func BasePage(c *gin.Context, title string) view.Page {
	s := SessionFrom(c)
	page := view.Page{
		Title: title,
		Path:  c.Request.URL.Path,
	}
	if s.IsAuthenticated() {
		page.User = s.User
	}
	return page
}

// RenderError рендерит страницу ошибки.
func RenderError(c *gin.Context, status int, heading, message string) {
	c.HTML(status, "error", view.ErrorPage{
		Page:    BasePage(c, heading),
		Status:  status,
		Heading: heading,
		Message: message,
	})
}

// RenderNotFound рендерит страницу 404.
func RenderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found", view.ErrorPage{
		Page:   BasePage(c, "Page Not Found"),
		Status: http.StatusNotFound,
	})
}
