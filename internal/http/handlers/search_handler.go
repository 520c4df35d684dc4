package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/http/middleware"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/search"
	"github.com/ignatzorin/proposals-console/internal/service"
	"github.com/ignatzorin/proposals-console/internal/view"
	"github.com/ignatzorin/proposals-console/internal/ws"
)

// Исходы живого поиска для метрик
const (
	searchOutcomeOK    = "ok"
	searchOutcomeEmpty = "empty"
	searchOutcomeError = "error"
)

// FragmentRenderer рендерит частичный шаблон в строку.
type FragmentRenderer interface {
	Fragment(name string, data any) (string, error)
}

// SearchObserver считает выполненные поиски.
type SearchObserver interface {
	ObserveSearch(outcome string)
}

// ProposalSearcher выполняет живой поиск предложений и рендерит таблицу тем же
// шаблоном, что и страница /proposals.
type ProposalSearcher struct {
	proposals *service.ProposalService
	renderer  FragmentRenderer
	observer  SearchObserver
}

// NewProposalSearcher создаёт поисковик; observer может быть nil.
func NewProposalSearcher(proposals *service.ProposalService, renderer FragmentRenderer, observer SearchObserver) *ProposalSearcher {
	return &ProposalSearcher{
		proposals: proposals,
		renderer:  renderer,
		observer:  observer,
	}
}

// Search реализует ws.Searcher.
func (s *ProposalSearcher) Search(ctx context.Context, q search.Query) ws.Message {
	filter := q.Filter()
	order := service.ParseSort(q.Sort)

	items, err := s.proposals.List(ctx, filter, order)
	if err != nil {
		s.observe(searchOutcomeError)
		logger.L().WithFields(logrus.Fields{"error": err.Error()}).Warn("live search failed")
		return ws.Message{Type: ws.MessageError, Error: view.MsgProposalsFailed}
	}

	html, err := s.renderer.Fragment("proposal_results", buildProposalResults(items, nil, filter, order))
	if err != nil {
		s.observe(searchOutcomeError)
		logger.L().WithFields(logrus.Fields{"error": err.Error()}).Error("live search render failed")
		return ws.Message{Type: ws.MessageError, Error: view.MsgProposalsFailed}
	}

	if len(items) == 0 {
		s.observe(searchOutcomeEmpty)
	} else {
		s.observe(searchOutcomeOK)
	}
	return ws.Message{Type: ws.MessageResults, HTML: html, Count: len(items)}
}

func (s *ProposalSearcher) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveSearch(outcome)
	}
}

// SearchHandler поднимает WebSocket живого поиска.
type SearchHandler struct {
	hub      *ws.Hub
	searcher ws.Searcher
	debounce time.Duration
	upgrader websocket.Upgrader
}

// NewSearchHandler создаёт хэндлер. Origin допускается свой хост или из allowedOrigins.
func NewSearchHandler(hub *ws.Hub, searcher ws.Searcher, debounce time.Duration, allowedOrigins []string) *SearchHandler {
	return &SearchHandler{
		hub:      hub,
		searcher: searcher,
		debounce: debounce,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, allowedOrigins)
			},
		},
	}
}

func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	return middleware.OriginAllowed(origin, allowed)
}

// Handle обрабатывает GET /ws/proposals/search.
func (h *SearchHandler) Handle(c *gin.Context) {
	s := middleware.SessionFrom(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger.L().WithFields(logrus.Fields{"error": err.Error()}).Warn("websocket upgrade failed")
		return
	}

	client := ws.NewClient(conn, h.hub, s.ID, h.searcher, h.debounce)
	h.hub.Register(client)
	client.Run()
}
