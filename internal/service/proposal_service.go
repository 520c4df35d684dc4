package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
)

// ProposalAPI описывает зависимости ProposalService от клиента бэкенда.
type ProposalAPI interface {
	ListProposals(ctx context.Context, filter models.ProposalFilter) ([]models.Proposal, error)
	GetProposal(ctx context.Context, id int64) (*models.Proposal, error)
	UpdateProposal(ctx context.Context, token string, id int64, fields models.ProposalFields) (*models.Proposal, error)
	CreateProposal(ctx context.Context, token string, fields models.ProposalFields) (*models.Proposal, error)
}

// ProposalService список, карточка и изменения предложений.
type ProposalService struct {
	api ProposalAPI
}

// NewProposalService создаёт сервис предложений.
func NewProposalService(proposalAPI ProposalAPI) *ProposalService {
	return &ProposalService{api: proposalAPI}
}

// List фильтрует на бэкенде и сортирует у себя.
func (s *ProposalService) List(ctx context.Context, filter models.ProposalFilter, order SortSpec) ([]models.Proposal, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Client = strings.TrimSpace(filter.Client)
	filter.ClientName = strings.TrimSpace(filter.ClientName)

	items, err := s.api.ListProposals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("proposal service: list: %w", err)
	}
	SortProposals(items, order)
	return items, nil
}

// Get возвращает предложение по id.
func (s *ProposalService) Get(ctx context.Context, id int64) (*models.Proposal, error) {
	p, err := s.api.GetProposal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("proposal service: get %d: %w", id, err)
	}
	return p, nil
}

// Update сохраняет отредактированные поля и возвращает то, что ответил бэкенд.
func (s *ProposalService) Update(ctx context.Context, token string, id int64, fields models.ProposalFields) (*models.Proposal, error) {
	p, err := s.api.UpdateProposal(ctx, token, id, fields)
	if err != nil {
		return nil, fmt.Errorf("proposal service: update %d: %w", id, err)
	}
	return p, nil
}

// Create заводит предложение; пустые служебные поля заполняются значениями по умолчанию.
func (s *ProposalService) Create(ctx context.Context, token string, fields models.ProposalFields) (*models.Proposal, error) {
	if fields.BusinessUnit == "" {
		fields.BusinessUnit = models.DefaultBusinessUnit
	}
	if fields.OpportunityStatus == "" {
		fields.OpportunityStatus = models.DefaultOpportunityStatus
	}
	if fields.ResourceName == "" {
		fields.ResourceName = models.DefaultResourceName
	}

	p, err := s.api.CreateProposal(ctx, token, fields)
	if err != nil {
		return nil, fmt.Errorf("proposal service: create: %w", err)
	}
	return p, nil
}
