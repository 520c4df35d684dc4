package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/dto"
	"github.com/ignatzorin/proposals-console/internal/http/handlers/common"
	"github.com/ignatzorin/proposals-console/internal/http/middleware"
	"github.com/ignatzorin/proposals-console/internal/interface/http/response"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/models"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
	"github.com/ignatzorin/proposals-console/internal/search"
	"github.com/ignatzorin/proposals-console/internal/service"
	"github.com/ignatzorin/proposals-console/internal/session"
	"github.com/ignatzorin/proposals-console/internal/validation"
	"github.com/ignatzorin/proposals-console/internal/view"
)

// proposalColumns колонки таблицы в порядке ячеек шаблона proposal_results.
var proposalColumns = []struct {
	Label string
	Field string
}{
	{"Name", "name"},
	{"Client", "client"},
	{"Client Name", "client_name"},
	{"Site", "site"},
	{"Quote Number", "quote_number"},
	{"Budget", "budget"},
	{"Opportunity Status", "opportunity_status"},
	{"Updated", "updated_at"},
}

// buildProposalResults собирает таблицу: состояние списка и ссылки сортировки,
// сохраняющие текущие фильтры.
func buildProposalResults(items []models.Proposal, err error, filter models.ProposalFilter, order service.SortSpec) view.ProposalResults {
	columns := make([]view.SortColumn, 0, len(proposalColumns))
	for _, col := range proposalColumns {
		next := order.Toggle(col.Field)
		columns = append(columns, view.SortColumn{
			Label: col.Label,
			Field: col.Field,
			Href: "/proposals" + common.QueryString(
				"name", filter.Name,
				"client", filter.Client,
				"client_name", filter.ClientName,
				"sort", next.String(),
			),
			Active: order.Field == col.Field,
			Desc:   order.Field == col.Field && order.Desc,
		})
	}
	return view.ProposalResults{
		Columns: columns,
		List:    view.NewListView(items, err, view.MsgProposalsFailed, view.MsgNoProposals),
	}
}

// ProposalHandler страницы списка, карточки, редактирования и создания предложений.
type ProposalHandler struct {
	proposals *service.ProposalService
	sessions  *session.Manager
}

// NewProposalHandler создаёт хэндлер.
func NewProposalHandler(proposals *service.ProposalService, sessions *session.Manager) *ProposalHandler {
	return &ProposalHandler{
		proposals: proposals,
		sessions:  sessions,
	}
}

// List обрабатывает GET /proposals.
func (h *ProposalHandler) List(c *gin.Context) {
	var q search.Query
	_ = c.ShouldBindQuery(&q)

	filter := q.Filter()
	order := service.ParseSort(q.Sort)
	items, err := h.proposals.List(c.Request.Context(), filter, order)

	status := http.StatusOK
	if err != nil {
		logBackendError(c, err, "proposals list failed")
		status = http.StatusBadGateway
	}

	s := middleware.SessionFrom(c)
	page := view.ProposalsPage{
		Page:    middleware.BasePage(c, "Proposals"),
		Filter:  filter,
		Sort:    order.String(),
		Results: buildProposalResults(items, err, filter, order),
	}
	page.Flash = popFlash(c, h.sessions, s)
	c.HTML(status, "proposals", page)
}

// APIList обрабатывает GET /api/proposals.
func (h *ProposalHandler) APIList(c *gin.Context) {
	var q search.Query
	_ = c.ShouldBindQuery(&q)

	order := service.ParseSort(q.Sort)
	items, err := h.proposals.List(c.Request.Context(), q.Filter(), order)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, len(items), order.String())
}

// APIGet обрабатывает GET /api/proposals/:id.
func (h *ProposalHandler) APIGet(c *gin.Context) {
	p, err := h.proposals.Get(c.Request.Context(), middleware.IDFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// Detail обрабатывает GET /proposals/:id.
func (h *ProposalHandler) Detail(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}

	s := middleware.SessionFrom(c)
	page := h.detailPage(c, p)
	page.Flash = popFlash(c, h.sessions, s)
	c.HTML(http.StatusOK, "proposal_detail", page)
}

// Edit обрабатывает GET /proposals/:id/edit.
func (h *ProposalHandler) Edit(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}

	page := h.detailPage(c, p)
	page.Editing = true
	page.Form = dto.ProposalFormFrom(p)
	c.HTML(http.StatusOK, "proposal_detail", page)
}

// Save обрабатывает POST /proposals/:id.
func (h *ProposalHandler) Save(c *gin.Context) {
	id := middleware.IDFrom(c)
	s := middleware.SessionFrom(c)

	var form dto.ProposalForm
	_ = common.BindForm(c, &form)

	if errs := validation.ValidateProposal(&form); !errs.Empty() {
		h.renderEdit(c, http.StatusUnprocessableEntity, id, form, errs, errs.First(validation.ProposalFieldOrder...))
		return
	}

	updated, err := h.proposals.Update(c.Request.Context(), s.Token, id, form.Fields())
	if err != nil {
		switch {
		case apperror.IsUnauthorized(err):
			expireSession(c, h.sessions, s)
		case apperror.IsNotFound(err):
			middleware.RenderError(c, http.StatusNotFound, view.MsgProposalNotFound, "")
		default:
			logBackendError(c, err, "proposal update failed")
			h.renderEdit(c, http.StatusBadGateway, id, form, nil, userMessage(err, view.MsgProposalSaveError))
		}
		return
	}

	logger.L().WithFields(logrus.Fields{
		"proposal_id": updated.ID,
		"user_id":     s.User.ID,
	}).Info("proposal updated")

	setFlash(c, h.sessions, s, view.MsgProposalSaved)
	common.RedirectAfterPost(c, proposalPath(id))
}

// NewPage обрабатывает GET /proposals/new.
func (h *ProposalHandler) NewPage(c *gin.Context) {
	c.HTML(http.StatusOK, "proposal_new", view.ProposalNewPage{
		Page:     middleware.BasePage(c, "Add Proposal"),
		Form:     dto.NewProposalForm(),
		Statuses: models.OpportunityStatuses,
	})
}

// Create обрабатывает POST /proposals/new.
func (h *ProposalHandler) Create(c *gin.Context) {
	s := middleware.SessionFrom(c)

	var form dto.ProposalForm
	_ = common.BindForm(c, &form)

	if errs := validation.ValidateProposal(&form); !errs.Empty() {
		h.renderNew(c, http.StatusUnprocessableEntity, form, errs, errs.First(validation.ProposalFieldOrder...))
		return
	}

	created, err := h.proposals.Create(c.Request.Context(), s.Token, form.Fields())
	if err != nil {
		if apperror.IsUnauthorized(err) {
			expireSession(c, h.sessions, s)
			return
		}
		logBackendError(c, err, "proposal create failed")
		h.renderNew(c, http.StatusBadGateway, form, nil, userMessage(err, view.MsgProposalSaveError))
		return
	}

	logger.L().WithFields(logrus.Fields{
		"proposal_id": created.ID,
		"user_id":     s.User.ID,
	}).Info("proposal created")

	setFlash(c, h.sessions, s, view.MsgProposalCreated)
	common.RedirectAfterPost(c, proposalPath(created.ID))
}

// load достаёт предложение по :id; при ошибке сам отвечает страницей.
func (h *ProposalHandler) load(c *gin.Context) (*models.Proposal, bool) {
	p, err := h.proposals.Get(c.Request.Context(), middleware.IDFrom(c))
	if err != nil {
		if apperror.IsNotFound(err) {
			middleware.RenderError(c, http.StatusNotFound, view.MsgProposalNotFound, "")
			return nil, false
		}
		_ = c.Error(err)
		return nil, false
	}
	return p, true
}

func (h *ProposalHandler) detailPage(c *gin.Context, p *models.Proposal) view.ProposalDetailPage {
	title := p.Name
	if title == "" {
		title = "Unnamed Proposal"
	}
	return view.ProposalDetailPage{
		Page:     middleware.BasePage(c, title),
		Proposal: p,
		Statuses: models.OpportunityStatuses,
	}
}

func (h *ProposalHandler) renderEdit(c *gin.Context, status int, id int64, form dto.ProposalForm, errs validation.FieldErrors, msg string) {
	page := h.detailPage(c, &models.Proposal{ID: id, Name: form.Name})
	page.Editing = true
	page.Form = form
	page.Errors = errs
	page.Error = msg
	c.HTML(status, "proposal_detail", page)
}

func (h *ProposalHandler) renderNew(c *gin.Context, status int, form dto.ProposalForm, errs validation.FieldErrors, msg string) {
	page := view.ProposalNewPage{
		Page:     middleware.BasePage(c, "Add Proposal"),
		Form:     form,
		Errors:   errs,
		Statuses: models.OpportunityStatuses,
	}
	page.Error = msg
	c.HTML(status, "proposal_new", page)
}

func proposalPath(id int64) string {
	return "/proposals/" + strconv.FormatInt(id, 10)
}
