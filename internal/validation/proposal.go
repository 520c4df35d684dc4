package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ignatzorin/proposals-console/internal/dto"
	"github.com/ignatzorin/proposals-console/internal/models"
)

// ProposalFieldOrder порядок полей формы предложения на странице.
var ProposalFieldOrder = []string{
	"name", "client", "client_name", "quote_number", "site", "budget", "opportunity_status",
}

var proposalLabels = map[string]string{
	"name":               "Proposal Name",
	"client":             "Client",
	"client_name":        "Client Name",
	"site":               "Site",
	"quote_number":       "Quote Number",
	"budget":             "Budget",
	"opportunity_status": "Opportunity Status",
}

// ValidateProposal нормализует форму и проверяет обязательные поля, бюджет и статус.
func ValidateProposal(form *dto.ProposalForm) FieldErrors {
	form.Normalize()
	return collect(form, proposalMessage)
}

func proposalMessage(fe validator.FieldError) string {
	label, ok := proposalLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "numeric":
		return label + " must be a number."
	case "opportunity_status":
		return label + " must be one of " + strings.Join(models.OpportunityStatuses, ", ") + "."
	default:
		return label + " is invalid."
	}
}
