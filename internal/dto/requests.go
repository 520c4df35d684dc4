package dto

import (
	"strconv"
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
)

// LoginForm форма входа.
type LoginForm struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// RegisterForm форма регистрации (и создания пользователя админом).
type RegisterForm struct {
	Username        string `form:"username" json:"username" validate:"required"`
	FirstName       string `form:"first_name" json:"first_name" validate:"required"`
	LastName        string `form:"last_name" json:"last_name" validate:"required"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `form:"role" json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// Normalize обрезает пробелы во всех полях, кроме паролей.
func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Role = strings.ToLower(strings.TrimSpace(f.Role))
}

// ProposalForm поля предложения в том виде, в каком их шлёт браузер.
type ProposalForm struct {
	Name              string `form:"name" json:"name" validate:"required"`
	Client            string `form:"client" json:"client" validate:"required"`
	ClientName        string `form:"client_name" json:"client_name" validate:"required"`
	Site              string `form:"site" json:"site" validate:"required"`
	QuoteNumber       string `form:"quote_number" json:"quote_number" validate:"required"`
	Budget            string `form:"budget" json:"budget" validate:"omitempty,numeric"`
	Description       string `form:"description" json:"description"`
	ResourceName      string `form:"resource_name" json:"resource_name"`
	BusinessUnit      string `form:"business_unit" json:"business_unit"`
	OpportunityStatus string `form:"opportunity_status" json:"opportunity_status" validate:"required,opportunity_status"`
}

// NewProposalForm форма нового предложения со значениями по умолчанию.
func NewProposalForm() ProposalForm {
	return ProposalForm{
		BusinessUnit:      models.DefaultBusinessUnit,
		OpportunityStatus: models.DefaultOpportunityStatus,
		ResourceName:      models.DefaultResourceName,
	}
}

// ProposalFormFrom заполняет форму текущими значениями предложения (режим редактирования).
func ProposalFormFrom(p *models.Proposal) ProposalForm {
	return ProposalForm{
		Name:              p.Name,
		Client:            p.Client,
		ClientName:        p.ClientName,
		Site:              p.Site,
		QuoteNumber:       p.QuoteNumber,
		Budget:            p.Budget.String(),
		Description:       p.Description,
		ResourceName:      p.ResourceName,
		BusinessUnit:      p.BusinessUnit,
		OpportunityStatus: p.OpportunityStatus,
	}
}

// Normalize обрезает пробелы; описание оставляем как есть.
func (f *ProposalForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Client = strings.TrimSpace(f.Client)
	f.ClientName = strings.TrimSpace(f.ClientName)
	f.Site = strings.TrimSpace(f.Site)
	f.QuoteNumber = strings.TrimSpace(f.QuoteNumber)
	f.Budget = strings.TrimSpace(f.Budget)
	f.ResourceName = strings.TrimSpace(f.ResourceName)
	f.BusinessUnit = strings.TrimSpace(f.BusinessUnit)
	f.OpportunityStatus = strings.TrimSpace(f.OpportunityStatus)
}

// Fields переводит проверенную форму в тело запроса к бэкенду.
// Пустой или нечисловой бюджет не отправляется.
func (f ProposalForm) Fields() models.ProposalFields {
	fields := models.ProposalFields{
		Name:              f.Name,
		Client:            f.Client,
		ClientName:        f.ClientName,
		Site:              f.Site,
		QuoteNumber:       f.QuoteNumber,
		Description:       f.Description,
		ResourceName:      f.ResourceName,
		BusinessUnit:      f.BusinessUnit,
		OpportunityStatus: f.OpportunityStatus,
	}
	if v, err := strconv.ParseFloat(f.Budget, 64); err == nil {
		fields.Budget = &v
	}
	return fields
}
