package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposals-console/internal/http/middleware"
	"github.com/ignatzorin/proposals-console/internal/session"
)

// HomeHandler главная страница.
type HomeHandler struct {
	sessions *session.Manager
}

// NewHomeHandler создаёт хэндлер.
func NewHomeHandler(sessions *session.Manager) *HomeHandler {
	return &HomeHandler{sessions: sessions}
}

// Home обрабатывает GET /.
func (h *HomeHandler) Home(c *gin.Context) {
	s := middleware.SessionFrom(c)
	page := middleware.BasePage(c, "Proposals Console")
	page.Flash = popFlash(c, h.sessions, s)
	c.HTML(http.StatusOK, "home", page)
}

// NotFound рендерит 404 для неизвестных путей.
func NotFound(c *gin.Context) {
	middleware.RenderNotFound(c)
}
