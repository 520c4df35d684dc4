package search

import (
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
)

// Query запрос живого поиска: фильтры и порядок сортировки.
type Query struct {
	Name       string `json:"name" form:"name"`
	Client     string `json:"client" form:"client"`
	ClientName string `json:"client_name" form:"client_name"`
	Sort       string `json:"sort" form:"sort"`
}

// Filter фильтр для GET /proposals.
func (q Query) Filter() models.ProposalFilter {
	return models.ProposalFilter{
		Name:       strings.TrimSpace(q.Name),
		Client:     strings.TrimSpace(q.Client),
		ClientName: strings.TrimSpace(q.ClientName),
	}
}
