package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ignatzorin/proposals-console/internal/dto"
)

// Сообщения форм входа и регистрации
const (
	MsgPasswordsMismatch = "Passwords do not match."
	MsgInvalidLogin      = "Invalid email or password"
)

// RegisterFieldOrder порядок полей формы регистрации.
var RegisterFieldOrder = []string{
	"username", "first_name", "last_name", "email", "password", "confirm_password", "role",
}

var registerLabels = map[string]string{
	"username":         "Username",
	"first_name":       "First Name",
	"last_name":        "Last Name",
	"email":            "Email",
	"password":         "Password",
	"confirm_password": "Confirm Password",
	"role":             "Role",
}

// EmailDomainMessage текст ошибки для почты вне разрешённого домена.
func EmailDomainMessage(domain string) string {
	return "Email must be a '" + domain + "' address."
}

// ValidateRegister проверяет форму регистрации.
// Пустой emailDomain отключает проверку домена.
func ValidateRegister(form *dto.RegisterForm, emailDomain string) FieldErrors {
	form.Normalize()
	errs := collect(form, registerMessage)

	if emailDomain != "" && form.Email != "" &&
		!strings.HasSuffix(strings.ToLower(form.Email), strings.ToLower(emailDomain)) {
		errs["email"] = EmailDomainMessage(emailDomain)
	}
	return errs
}

// ValidateLogin проверяет только наличие полей; неверную пару отвергает бэкенд.
func ValidateLogin(form *dto.LoginForm) FieldErrors {
	form.Email = strings.TrimSpace(form.Email)
	return collect(form, func(fe validator.FieldError) string {
		return MsgInvalidLogin
	})
}

func registerMessage(fe validator.FieldError) string {
	label, ok := registerLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "Email is not a valid address."
	case "eqfield":
		return MsgPasswordsMismatch
	case "oneof":
		return "Role must be one of user, moderator, admin."
	default:
		return label + " is invalid."
	}
}
