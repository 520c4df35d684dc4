package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
	"github.com/ignatzorin/proposals-console/internal/session"
)

// saveSession сохраняет сессию; сбой хранилища только логируется.
func saveSession(c *gin.Context, sessions *session.Manager, s *session.Session) {
	if err := sessions.Save(c, s); err != nil {
		logger.L().WithFields(logrus.Fields{
			"error": err.Error(),
			"path":  c.Request.URL.Path,
		}).Error("session save failed")
	}
}

// popFlash достаёт одноразовое сообщение и сохраняет сессию, если оно было.
func popFlash(c *gin.Context, sessions *session.Manager, s *session.Session) string {
	msg := s.PopFlash()
	if msg != "" {
		saveSession(c, sessions, s)
	}
	return msg
}

// setFlash кладёт сообщение для следующей страницы.
func setFlash(c *gin.Context, sessions *session.Manager, s *session.Session, msg string) {
	s.Flash = msg
	saveSession(c, sessions, s)
}

// expireSession очищает учётные данные после отказа бэкенда по токену
// и отправляет на главную.
func expireSession(c *gin.Context, sessions *session.Manager, s *session.Session) {
	s.Clear()
	s.Flash = MsgSessionExpired
	saveSession(c, sessions, s)
	c.Redirect(http.StatusSeeOther, "/")
}

// userMessage текст ошибки бэкенда, который можно показать пользователю (4xx),
// иначе fallback.
func userMessage(err error, fallback string) string {
	switch apperror.CodeOf(err) {
	case apperror.ErrCodeBadRequest, apperror.ErrCodeConflict, apperror.ErrCodeValidation:
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			return appErr.Message
		}
	}
	return fallback
}

func logBackendError(c *gin.Context, err error, msg string) {
	logger.L().WithFields(logrus.Fields{
		"error": err.Error(),
		"path":  c.Request.URL.Path,
	}).Warn(msg)
}
