package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/dto"
	"github.com/ignatzorin/proposals-console/internal/http/handlers/common"
	"github.com/ignatzorin/proposals-console/internal/http/middleware"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
	"github.com/ignatzorin/proposals-console/internal/service"
	"github.com/ignatzorin/proposals-console/internal/session"
	"github.com/ignatzorin/proposals-console/internal/validation"
	"github.com/ignatzorin/proposals-console/internal/view"
	"github.com/ignatzorin/proposals-console/internal/ws"
)

// Сообщения страниц входа и регистрации
const (
	MsgBackendDown     = "The server is not responding. Please try again later."
	MsgRegisterFailed  = "Registration failed."
	MsgSessionExpired  = "Your session has expired. Please log in again."
	loginResultOK      = "success"
	loginResultInvalid = "invalid"
	loginResultError   = "error"
)

// LoginObserver считает попытки входа.
type LoginObserver interface {
	ObserveLogin(result string)
}

// AuthHandler предоставляет HTTP слой для входа, регистрации и выхода.
type AuthHandler struct {
	auth        *service.AuthService
	users       *service.UserService
	sessions    *session.Manager
	hub         *ws.Hub
	observer    LoginObserver
	emailDomain string
}

// NewAuthHandler создаёт хэндлер. observer и hub могут быть nil.
func NewAuthHandler(
	auth *service.AuthService,
	users *service.UserService,
	sessions *session.Manager,
	hub *ws.Hub,
	observer LoginObserver,
	emailDomain string,
) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		users:       users,
		sessions:    sessions,
		hub:         hub,
		observer:    observer,
		emailDomain: emailDomain,
	}
}

// LoginPage обрабатывает GET /login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if s.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	page := view.LoginPage{Page: middleware.BasePage(c, "Login")}
	page.Flash = popFlash(c, h.sessions, s)
	c.HTML(http.StatusOK, "login", page)
}

// Login обрабатывает POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	_ = common.BindForm(c, &form)

	if errs := validation.ValidateLogin(&form); !errs.Empty() {
		h.observe(loginResultInvalid)
		h.renderLogin(c, http.StatusBadRequest, form, validation.MsgInvalidLogin)
		return
	}

	// Новая сессия на каждый вход, старый id больше не действует
	old := middleware.SessionFrom(c)
	fresh := session.New()

	if err := h.auth.Login(c.Request.Context(), fresh, form.Email, form.Password); err != nil {
		// Неверные данные только на 401; остальное считаем сбоем бэкенда
		if !apperror.IsUnauthorized(err) {
			h.observe(loginResultError)
			logBackendError(c, err, "login: backend failed")
			h.renderLogin(c, http.StatusBadGateway, form, MsgBackendDown)
			return
		}
		h.observe(loginResultInvalid)
		h.renderLogin(c, http.StatusUnauthorized, form, validation.MsgInvalidLogin)
		return
	}

	h.observe(loginResultOK)
	logger.L().WithFields(logrus.Fields{
		"user_id": fresh.User.ID,
		"role":    fresh.User.Role,
	}).Info("user logged in")

	if old.ID != "" {
		_ = h.sessions.Store().Delete(c.Request.Context(), old.ID)
	}
	saveSession(c, h.sessions, fresh)
	common.RedirectAfterPost(c, "/")
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, form dto.LoginForm, msg string) {
	form.Password = ""
	page := view.LoginPage{Page: middleware.BasePage(c, "Login"), Form: form}
	page.Error = msg
	c.HTML(status, "login", page)
}

func (h *AuthHandler) observe(result string) {
	if h.observer != nil {
		h.observer.ObserveLogin(result)
	}
}

// RegisterPage обрабатывает GET /register.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register", h.registerPage(c, dto.RegisterForm{}))
}

// Register обрабатывает POST /register. Анонимная регистрация всегда с ролью user.
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	_ = common.BindForm(c, &form)

	if errs := validation.ValidateRegister(&form, h.emailDomain); !errs.Empty() {
		page := h.registerPage(c, form)
		page.Errors = errs
		page.Error = errs.First(validation.RegisterFieldOrder...)
		c.HTML(http.StatusUnprocessableEntity, "register", page)
		return
	}

	s := middleware.SessionFrom(c)
	if _, err := h.auth.Register(c.Request.Context(), s, form); err != nil {
		logBackendError(c, err, "register failed")
		page := h.registerPage(c, form)
		page.Error = userMessage(err, MsgRegisterFailed)
		c.HTML(registerFailureStatus(err), "register", page)
		return
	}

	page := h.registerPage(c, dto.RegisterForm{})
	page.Success = view.MsgUserRegistered
	c.HTML(http.StatusCreated, "register", page)
}

func (h *AuthHandler) registerPage(c *gin.Context, form dto.RegisterForm) view.RegisterPage {
	form.Password = ""
	form.ConfirmPassword = ""
	return view.RegisterPage{
		Page:   middleware.BasePage(c, "Register"),
		Form:   form,
		Action: "/register",
	}
}

func registerFailureStatus(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500 {
		return appErr.HTTPStatus
	}
	return http.StatusBadGateway
}

// Logout обрабатывает POST /logout: чистит сессию, кэш и живые соединения.
func (h *AuthHandler) Logout(c *gin.Context) {
	s := middleware.SessionFrom(c)

	h.auth.Logout(s)
	if h.users != nil {
		h.users.Invalidate(s.ID)
	}
	if h.hub != nil {
		h.hub.CloseSession(s.ID)
	}
	if err := h.sessions.Destroy(c, s); err != nil {
		logger.L().WithFields(logrus.Fields{"error": err.Error()}).Warn("session destroy failed")
	}
	common.RedirectAfterPost(c, "/")
}
