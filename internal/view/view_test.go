package view

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/proposals-console/internal/dto"
	"github.com/ignatzorin/proposals-console/internal/models"
)

func renderPage(t *testing.T, r *Renderer, name string, data any) string {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, r.Instance(name, data).Render(w))
	return w.Body.String()
}

func TestNewListView_States(t *testing.T) {
	failed := NewListView([]int{1}, errors.New("boom"), MsgProposalsFailed, MsgNoProposals)
	assert.True(t, failed.IsError())
	assert.Equal(t, MsgProposalsFailed, failed.Error)
	assert.Empty(t, failed.Items)

	empty := NewListView([]int{}, nil, MsgProposalsFailed, MsgNoProposals)
	assert.True(t, empty.IsEmpty())

	full := NewListView([]int{1, 2}, nil, MsgProposalsFailed, MsgNoProposals)
	assert.True(t, full.IsPopulated())
	assert.Equal(t, 2, full.Len())

	assert.True(t, Loading[int]().IsLoading())
}

func TestRenderer_ProposalResultsStates(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	cases := []struct {
		name string
		list ListView[models.Proposal]
		want string
	}{
		{"loading", Loading[models.Proposal](), MsgLoadingProposals},
		{"error", NewListView[models.Proposal](nil, errors.New("x"), MsgProposalsFailed, MsgNoProposals), MsgProposalsFailed},
		{"empty", NewListView([]models.Proposal{}, nil, MsgProposalsFailed, MsgNoProposals), MsgNoProposals},
		{"populated", NewListView([]models.Proposal{{ID: 5, Name: "Line 4", Budget: models.NewBudget(1500)}}, nil, MsgProposalsFailed, MsgNoProposals), "$1,500.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			html, err := r.Fragment("proposal_results", ProposalResults{List: tc.list})
			require.NoError(t, err)
			assert.Contains(t, html, tc.want)
		})
	}
}

func TestRenderer_UsersRoleGatedButtons(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	active := false
	users := []models.User{
		{ID: 1, Username: "ana", Role: models.RoleUser},
		{ID: 2, Username: "bob", Role: models.RoleUser, IsActive: &active},
	}
	list := NewListView(users, nil, MsgUsersFailed, MsgNoUsers)

	admin := renderPage(t, r, "users", UsersPage{
		Page: Page{User: &models.User{ID: 9, Role: models.RoleAdmin}},
		List: list,
	})
	assert.Contains(t, admin, `action="/users/1/disable"`)
	assert.Contains(t, admin, `action="/users/2/enable"`)

	regular := renderPage(t, r, "users", UsersPage{
		Page: Page{User: &models.User{ID: 3, Role: models.RoleModerator}},
		List: list,
	})
	assert.NotContains(t, regular, "/disable")
	assert.NotContains(t, regular, "/enable")
	assert.Contains(t, regular, "ana")
}

func TestRenderer_ProposalDetailPlaceholders(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html := renderPage(t, r, "proposal_detail", ProposalDetailPage{
		Page:     Page{User: &models.User{ID: 1}},
		Proposal: &models.Proposal{ID: 3},
	})
	assert.Contains(t, html, "Unnamed Proposal")
	assert.Contains(t, html, "No description provided.")
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, `href="/proposals/3/edit"`)
}

func TestRenderer_ProposalDetailEditMode(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	form := dto.ProposalForm{Name: "X", OpportunityStatus: models.OpportunityStatusPending}
	html := renderPage(t, r, "proposal_detail", ProposalDetailPage{
		Page:     Page{User: &models.User{ID: 1}},
		Proposal: &models.Proposal{ID: 3, Name: "X"},
		Editing:  true,
		Form:     form,
		Errors:   map[string]string{"client": "Client is required."},
		Statuses: models.OpportunityStatuses,
	})
	assert.Contains(t, html, "Client is required.")
	assert.Contains(t, html, `<option value="Pending" selected>`)
	assert.Contains(t, html, "Save Changes")
}

func TestRenderer_NotFoundAndUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	assert.Contains(t, renderPage(t, r, "not_found", ErrorPage{}), "404 - Page Not Found")
	assert.Contains(t, renderPage(t, r, "missing", nil), "Oops!")
	assert.True(t, r.Has("proposals"))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "N/A", FormatBudget(models.Budget{}))
	assert.Equal(t, "$0.50", FormatBudget(models.NewBudget(0.5)))
	assert.Equal(t, "$1,234,567.89", FormatBudget(models.NewBudget(1234567.89)))
	assert.Equal(t, "-$12.00", FormatBudget(models.NewBudget(-12)))
	assert.Equal(t, "N/A", NA("  "))
	assert.Equal(t, "User #4", CreatorName(models.Creator{ID: 4}))
	assert.Equal(t, "Ann Lee", CreatorName(models.Creator{ID: 4, FirstName: "Ann", LastName: "Lee"}))
	assert.Equal(t, "N/A", FormatTime(models.Timestamp{}))
}
