package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/interface/http/response"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Детали уходят в лог, клиенту достаётся общий текст.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		logger.L().WithFields(logrus.Fields{
			"error":      err.Error(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(ContextRequestIDKey),
		}).Error("Request error")

		if response.WantsJSON(c) {
			response.Error(c, err)
			return
		}

		status, heading, message := describe(err)
		if status == http.StatusNotFound {
			RenderNotFound(c)
			return
		}
		RenderError(c, status, heading, message)
	}
}

// describe подбирает статус и текст страницы по коду ошибки.
func describe(err error) (int, string, string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "Oops!", "Internal server error."
	}

	switch appErr.Code {
	case apperror.ErrCodeNotFound:
		return http.StatusNotFound, "404 - Page Not Found", appErr.Message
	case apperror.ErrCodeForbidden:
		return http.StatusForbidden, "403 - Forbidden", "You do not have permission to do this."
	case apperror.ErrCodeUnauthorized:
		return http.StatusUnauthorized, "Oops!", "Please log in again."
	case apperror.ErrCodeUnavailable, apperror.ErrCodeUpstream:
		return http.StatusBadGateway, "Oops!", "The backend is not responding. Please try again later."
	default:
		return appErr.HTTPStatus, "Oops!", appErr.Message
	}
}
