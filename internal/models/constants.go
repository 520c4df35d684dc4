package models

// Роли пользователей
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// OpportunityStatus константы статусов возможности по предложению
const (
	OpportunityStatusQuote    = "Quote"
	OpportunityStatusApproved = "Approved"
	OpportunityStatusRejected = "Rejected"
	OpportunityStatusPending  = "Pending"
)

// Значения по умолчанию для нового предложения
const (
	DefaultBusinessUnit      = "In House Project"
	DefaultOpportunityStatus = OpportunityStatusQuote
	DefaultResourceName      = "Automation Team"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleAdmin:     {},
	RoleModerator: {},
	RoleUser:      {},
}

// ValidOpportunityStatuses список валидных статусов возможности
var ValidOpportunityStatuses = map[string]struct{}{
	OpportunityStatusQuote:    {},
	OpportunityStatusApproved: {},
	OpportunityStatusRejected: {},
	OpportunityStatusPending:  {},
}

// OpportunityStatuses сохраняет порядок пунктов выпадающего списка.
var OpportunityStatuses = []string{
	OpportunityStatusQuote,
	OpportunityStatusApproved,
	OpportunityStatusRejected,
	OpportunityStatusPending,
}

// Roles сохраняет порядок пунктов выбора роли.
var Roles = []string{RoleUser, RoleModerator, RoleAdmin}
