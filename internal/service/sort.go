package service

import (
	"sort"
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
)

// SortSpec порядок сортировки списка предложений: поле и направление.
type SortSpec struct {
	Field string
	Desc  bool
}

type proposalLess func(a, b *models.Proposal) bool

func byString(get func(p *models.Proposal) string) proposalLess {
	return func(a, b *models.Proposal) bool {
		return strings.ToLower(get(a)) < strings.ToLower(get(b))
	}
}

// Сравнение по колонкам таблицы. Пустой бюджет меньше любого числа.
var proposalComparators = map[string]proposalLess{
	"id":                 func(a, b *models.Proposal) bool { return a.ID < b.ID },
	"name":               byString(func(p *models.Proposal) string { return p.Name }),
	"client":             byString(func(p *models.Proposal) string { return p.Client }),
	"client_name":        byString(func(p *models.Proposal) string { return p.ClientName }),
	"site":               byString(func(p *models.Proposal) string { return p.Site }),
	"quote_number":       byString(func(p *models.Proposal) string { return p.QuoteNumber }),
	"resource_name":      byString(func(p *models.Proposal) string { return p.ResourceName }),
	"business_unit":      byString(func(p *models.Proposal) string { return p.BusinessUnit }),
	"opportunity_status": byString(func(p *models.Proposal) string { return p.OpportunityStatus }),
	"created_by":         byString(func(p *models.Proposal) string { return p.CreatedBy.Name() }),
	"budget": func(a, b *models.Proposal) bool {
		if a.Budget.Valid != b.Budget.Valid {
			return !a.Budget.Valid
		}
		return a.Budget.Value < b.Budget.Value
	},
	"created_at": func(a, b *models.Proposal) bool { return a.CreatedAt.Before(b.CreatedAt.Time) },
	"updated_at": func(a, b *models.Proposal) bool { return a.UpdatedAt.Before(b.UpdatedAt.Time) },
}

// ParseSort разбирает "name" или "-budget"; неизвестное поле даёт пустой порядок.
func ParseSort(raw string) SortSpec {
	raw = strings.TrimSpace(raw)
	spec := SortSpec{}
	if strings.HasPrefix(raw, "-") {
		spec.Desc = true
		raw = raw[1:]
	}
	if _, ok := proposalComparators[raw]; !ok {
		return SortSpec{}
	}
	spec.Field = raw
	return spec
}

// IsZero сообщает, что сортировка не задана.
func (s SortSpec) IsZero() bool {
	return s.Field == ""
}

// String обратное к ParseSort.
func (s SortSpec) String() string {
	if s.Field == "" {
		return ""
	}
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// Toggle порядок для ссылки в заголовке колонки: повторный клик разворачивает направление.
func (s SortSpec) Toggle(field string) SortSpec {
	if s.Field == field {
		return SortSpec{Field: field, Desc: !s.Desc}
	}
	return SortSpec{Field: field}
}

// SortProposals устойчиво сортирует список на месте.
func SortProposals(items []models.Proposal, spec SortSpec) {
	less, ok := proposalComparators[spec.Field]
	if !ok {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if spec.Desc {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
}
