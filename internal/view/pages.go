package view

import (
	"github.com/ignatzorin/proposals-console/internal/dto"
	"github.com/ignatzorin/proposals-console/internal/models"
)

// Тексты состояний списков
const (
	MsgProposalsFailed   = "Failed to load proposals."
	MsgUsersFailed       = "Failed to load users."
	MsgProposalNotFound  = "Proposal not found."
	MsgNoProposals       = "No proposals found."
	MsgNoUsers           = "No users found."
	MsgLoadingProposals  = "Loading proposals..."
	MsgUserRegistered    = "User registered successfully!"
	MsgProposalSaved     = "Proposal updated."
	MsgProposalCreated   = "Proposal created."
	MsgProposalSaveError = "Failed to save proposal."
)

// Page общие данные layout: навбар и одноразовые сообщения.
type Page struct {
	Title string
	User  *models.User
	Flash string
	// Error сообщение над содержимым страницы.
	Error string
	// Path текущий путь, для подсветки пункта меню.
	Path string
}

// IsAdmin показывает админские элементы интерфейса.
func (p Page) IsAdmin() bool {
	return p.User.IsAdmin()
}

// LoggedIn пользователь вошёл.
func (p Page) LoggedIn() bool {
	return p.User != nil
}

// ErrorPage страница ошибки ("Oops!") и 403/404.
type ErrorPage struct {
	Page
	Status  int
	Heading string
	Message string
}

// LoginPage форма входа.
type LoginPage struct {
	Page
	Form dto.LoginForm
}

// RegisterPage форма регистрации и создания пользователя админом.
type RegisterPage struct {
	Page
	Form     dto.RegisterForm
	Errors   map[string]string
	Action   string
	ShowRole bool
	Roles    []string
	Success  string
}

// UserFilterForm значения фильтров страницы пользователей.
type UserFilterForm struct {
	Role     string
	IsActive string
	Email    string
	Username string
}

// UsersPage список пользователей.
type UsersPage struct {
	Page
	Filter UserFilterForm
	Roles  []string
	List   ListView[models.User]
	// ReturnTo адрес возврата после Disable/Enable с сохранением фильтров.
	ReturnTo string
}

// SortColumn заголовок колонки таблицы предложений со ссылкой сортировки.
type SortColumn struct {
	Label  string
	Field  string
	Href   string
	Active bool
	Desc   bool
}

// ProposalResults таблица предложений; отдаётся и страницей, и живым поиском.
type ProposalResults struct {
	Columns []SortColumn
	List    ListView[models.Proposal]
}

// ProposalsPage список предложений с фильтрами.
type ProposalsPage struct {
	Page
	Filter  models.ProposalFilter
	Sort    string
	Results ProposalResults
}

// ProposalDetailPage карточка предложения в режиме просмотра или редактирования.
type ProposalDetailPage struct {
	Page
	Proposal *models.Proposal
	Editing  bool
	Form     dto.ProposalForm
	Errors   map[string]string
	Statuses []string
}

// ProposalNewPage форма нового предложения.
type ProposalNewPage struct {
	Page
	Form     dto.ProposalForm
	Errors   map[string]string
	Statuses []string
}

// StatusSelectData данные выпадающего списка статусов.
type StatusSelectData struct {
	Current  string
	Statuses []string
}

// StatusSelect выпадающий список статусов формы редактирования.
func (p ProposalDetailPage) StatusSelect() StatusSelectData {
	return StatusSelectData{Current: p.Form.OpportunityStatus, Statuses: p.Statuses}
}

// StatusSelect выпадающий список статусов формы создания.
func (p ProposalNewPage) StatusSelect() StatusSelectData {
	return StatusSelectData{Current: p.Form.OpportunityStatus, Statuses: p.Statuses}
}
