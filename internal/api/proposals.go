package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
)

// ListProposals возвращает предложения с фильтрами name/client/client_name.
func (c *Client) ListProposals(ctx context.Context, filter models.ProposalFilter) ([]models.Proposal, error) {
	q := url.Values{}
	if v := strings.TrimSpace(filter.Name); v != "" {
		q.Set("name", v)
	}
	if v := strings.TrimSpace(filter.Client); v != "" {
		q.Set("client", v)
	}
	if v := strings.TrimSpace(filter.ClientName); v != "" {
		q.Set("client_name", v)
	}

	var proposals []models.Proposal
	err := c.do(ctx, request{
		op:     "proposals.list",
		method: http.MethodGet,
		path:   "/proposals",
		query:  q,
	}, &proposals)
	if err != nil {
		return nil, err
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}
	return proposals, nil
}

// GetProposal возвращает одно предложение; пустой объект считается отсутствием.
func (c *Client) GetProposal(ctx context.Context, id int64) (*models.Proposal, error) {
	var proposal models.Proposal
	err := c.do(ctx, request{
		op:     "proposals.get",
		method: http.MethodGet,
		path:   fmt.Sprintf("/proposals/%d", id),
	}, &proposal)
	if err != nil {
		return nil, err
	}
	if proposal.IsZero() {
		return nil, apperror.ErrProposalNotFound
	}
	return &proposal, nil
}

// UpdateProposal сохраняет изменения полей и возвращает обновлённое предложение.
func (c *Client) UpdateProposal(ctx context.Context, token string, id int64, fields models.ProposalFields) (*models.Proposal, error) {
	var resp models.ProposalMutationResponse
	err := c.do(ctx, request{
		op:     "proposals.update",
		method: http.MethodPut,
		path:   fmt.Sprintf("/proposals/%d", id),
		token:  token,
		body:   fields,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Proposal.ID == 0 {
		resp.Proposal.ID = id
	}
	return &resp.Proposal, nil
}

// CreateProposal создаёт предложение от имени владельца токена.
func (c *Client) CreateProposal(ctx context.Context, token string, fields models.ProposalFields) (*models.Proposal, error) {
	var resp models.ProposalMutationResponse
	err := c.do(ctx, request{
		op:     "proposals.create",
		method: http.MethodPost,
		path:   "/proposals",
		token:  token,
		body:   fields,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Proposal, nil
}
