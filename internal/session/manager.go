package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/logger"
)

// Manager связывает cookie браузера с сессией в хранилище.
type Manager struct {
	store      Store
	signer     *CookieSigner
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager создаёт менеджер сессий.
func NewManager(store Store, secret, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:      store,
		signer:     NewCookieSigner(secret, ttl),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Store возвращает хранилище (health check).
func (m *Manager) Store() Store {
	return m.store
}

// Load достаёт сессию по cookie; при любой проблеме отдаёт новую анонимную.
func (m *Manager) Load(c *gin.Context) *Session {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return New()
	}

	id, err := m.signer.Parse(raw)
	if err != nil {
		return New()
	}

	s, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.L().WithFields(logrus.Fields{"error": err.Error()}).Warn("session load failed")
		}
		return New()
	}
	return s
}

// Save сохраняет сессию и продлевает cookie.
func (m *Manager) Save(c *gin.Context, s *Session) error {
	if err := m.store.Save(c.Request.Context(), s, m.ttl); err != nil {
		return err
	}

	value, err := m.signer.Sign(s.ID)
	if err != nil {
		return err
	}
	m.setCookie(c, value, int(m.ttl.Seconds()))
	return nil
}

// Destroy удаляет сессию и стирает cookie.
func (m *Manager) Destroy(c *gin.Context, s *Session) error {
	m.setCookie(c, "", -1)
	if s == nil {
		return nil
	}
	return m.store.Delete(c.Request.Context(), s.ID)
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, "/", "", m.secure, true)
}
