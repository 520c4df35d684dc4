package models

import (
	"strings"
)

// User описывает учётную запись так, как её отдаёт бэкенд.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// IsAdmin сообщает, может ли пользователь управлять учётками.
func (u *User) IsAdmin() bool {
	return u != nil && strings.EqualFold(u.Role, RoleAdmin)
}

// Active трактует отсутствующий флаг как активную учётку (бэкенд по умолчанию true).
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// SetActive выставляет флаг активности.
func (u *User) SetActive(active bool) {
	u.IsActive = &active
}

// FullName склеивает имя и фамилию, падая обратно на username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// LoginResponse ответ POST /auth/login.
type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// MessageResponse общий ответ бэкенда с текстом.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
