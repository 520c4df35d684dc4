package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/dto"
	"github.com/ignatzorin/proposals-console/internal/http/handlers/common"
	"github.com/ignatzorin/proposals-console/internal/http/middleware"
	"github.com/ignatzorin/proposals-console/internal/interface/http/response"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
	"github.com/ignatzorin/proposals-console/internal/service"
	"github.com/ignatzorin/proposals-console/internal/session"
	"github.com/ignatzorin/proposals-console/internal/validation"
	"github.com/ignatzorin/proposals-console/internal/view"
)

// Сообщения страницы пользователей
const (
	MsgUserDisableFailed = "Failed to disable user."
	MsgUserEnableFailed  = "Failed to enable user."
	MsgUserCreateFailed  = "Failed to create user."
)

// UserHandler список пользователей и админские операции над ними.
type UserHandler struct {
	users       *service.UserService
	auth        *service.AuthService
	sessions    *session.Manager
	emailDomain string
}

// NewUserHandler создаёт хэндлер.
func NewUserHandler(users *service.UserService, auth *service.AuthService, sessions *session.Manager, emailDomain string) *UserHandler {
	return &UserHandler{
		users:       users,
		auth:        auth,
		sessions:    sessions,
		emailDomain: emailDomain,
	}
}

// List обрабатывает GET /users (и GET /api/users).
func (h *UserHandler) List(c *gin.Context) {
	s := middleware.SessionFrom(c)

	var filter api.UserFilter
	_ = c.ShouldBindQuery(&filter)

	users, err := h.users.List(c.Request.Context(), s.ID, filter)

	if response.WantsJSON(c) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.List(c, users, len(users), "")
		return
	}

	status := http.StatusOK
	if err != nil {
		logBackendError(c, err, "users list failed")
		status = http.StatusBadGateway
	}

	page := view.UsersPage{
		Page: middleware.BasePage(c, "Users"),
		Filter: view.UserFilterForm{
			Role:     filter.Role,
			IsActive: filter.IsActive,
			Email:    filter.Email,
			Username: filter.Username,
		},
		Roles:    models.Roles,
		List:     view.NewListView(users, err, view.MsgUsersFailed, view.MsgNoUsers),
		ReturnTo: c.Request.URL.RequestURI(),
	}
	page.Flash = popFlash(c, h.sessions, s)
	c.HTML(status, "users", page)
}

// NewPage обрабатывает GET /users/new.
func (h *UserHandler) NewPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register", h.newUserPage(c, dto.RegisterForm{Role: models.RoleUser}))
}

// Create обрабатывает POST /users/new: админ заводит пользователя с выбранной ролью.
func (h *UserHandler) Create(c *gin.Context) {
	var form dto.RegisterForm
	_ = common.BindForm(c, &form)

	if errs := validation.ValidateRegister(&form, h.emailDomain); !errs.Empty() {
		page := h.newUserPage(c, form)
		page.Errors = errs
		page.Error = errs.First(validation.RegisterFieldOrder...)
		c.HTML(http.StatusUnprocessableEntity, "register", page)
		return
	}

	s := middleware.SessionFrom(c)
	if _, err := h.auth.Register(c.Request.Context(), s, form); err != nil {
		if apperror.IsUnauthorized(err) {
			expireSession(c, h.sessions, s)
			return
		}
		logBackendError(c, err, "admin user create failed")
		page := h.newUserPage(c, form)
		page.Error = userMessage(err, MsgUserCreateFailed)
		c.HTML(registerFailureStatus(err), "register", page)
		return
	}

	logger.L().WithFields(logrus.Fields{
		"admin_id": s.User.ID,
		"email":    form.Email,
		"role":     form.Role,
	}).Info("user created by admin")

	h.users.Invalidate(s.ID)
	setFlash(c, h.sessions, s, view.MsgUserRegistered)
	common.RedirectAfterPost(c, "/users")
}

func (h *UserHandler) newUserPage(c *gin.Context, form dto.RegisterForm) view.RegisterPage {
	form.Password = ""
	form.ConfirmPassword = ""
	return view.RegisterPage{
		Page:     middleware.BasePage(c, "Create User"),
		Form:     form,
		Action:   "/users/new",
		ShowRole: true,
		Roles:    models.Roles,
	}
}

// Disable обрабатывает POST /users/:id/disable.
func (h *UserHandler) Disable(c *gin.Context) {
	h.setActive(c, false)
}

// Enable обрабатывает POST /users/:id/enable.
func (h *UserHandler) Enable(c *gin.Context) {
	h.setActive(c, true)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	s := middleware.SessionFrom(c)
	id := middleware.IDFrom(c)

	err := h.users.SetActive(c.Request.Context(), s.ID, s.Token, id, active)

	if response.WantsJSON(c) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"id": id, "is_active": active})
		return
	}

	if err != nil {
		if apperror.IsUnauthorized(err) {
			expireSession(c, h.sessions, s)
			return
		}
		logBackendError(c, err, "user toggle failed")
		msg := MsgUserDisableFailed
		if active {
			msg = MsgUserEnableFailed
		}
		s.Flash = msg
	} else {
		logger.L().WithFields(logrus.Fields{
			"admin_id": s.User.ID,
			"user_id":  id,
			"active":   active,
		}).Info("user active flag changed")
	}

	saveSession(c, h.sessions, s)
	common.RedirectAfterPost(c, common.SafeReturnPath(c.PostForm("return_to"), "/users", "/users"))
}
