package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/goroutine"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/search"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxQuerySize = 4 * 1024
)

// Типы сообщений сервер → браузер
const (
	MessageLoading = "loading"
	MessageResults = "results"
	MessageError   = "error"
)

// Message сообщение живого поиска.
type Message struct {
	Type  string `json:"type"`
	HTML  string `json:"html,omitempty"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// Searcher выполняет поиск и готовит ответ (результаты или ошибку).
type Searcher interface {
	Search(ctx context.Context, q search.Query) Message
}

// Client представляет одно подключение WebSocket.
type Client struct {
	conn      *websocket.Conn
	hub       *Hub
	sessionID string
	send      chan []byte
	searcher  Searcher
	debouncer *search.Debouncer

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// searchGen номер последнего запущенного поиска; ответы старых поисков отбрасываются
	searchMu     sync.Mutex
	searchGen    uint64
	searchCancel context.CancelFunc
}

// NewClient создаёт нового клиента; wait задаёт период затишья перед поиском.
func NewClient(conn *websocket.Conn, hub *Hub, sessionID string, searcher Searcher, wait time.Duration) *Client {
	ctx, cancel := context.WithCancel(hub.ctx)
	c := &Client{
		conn:      conn,
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 16),
		searcher:  searcher,
		ctx:       ctx,
		cancel:    cancel,
	}
	c.debouncer = search.NewDebouncer(wait, c.runSearch)
	return c
}

// Run запускает обработку входящих и исходящих сообщений.
func (c *Client) Run() {
	goroutine.SafeGo("ws write pump", c.writePump)
	c.readPump()
}

// Close снимает клиента с хаба и закрывает соединение.
func (c *Client) Close() {
	c.hub.Unregister(c)
	c.shutdown()
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.debouncer.Stop()
		c.cancel()
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer c.Close()
	defer goroutine.DefaultRecoveryHandler.Recover("ws read pump")

	c.conn.SetReadLimit(maxQuerySize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.L().WithFields(logrus.Fields{"error": err.Error()}).Debug("ws read failed")
			}
			return
		}

		var q search.Query
		if err := json.Unmarshal(raw, &q); err != nil {
			c.enqueue(Message{Type: MessageError, Error: "malformed query"})
			continue
		}
		c.debouncer.Trigger(q)
	}
}

// runSearch вызывается дебаунсером после периода затишья. Новый поиск
// отменяет предыдущий, и браузер получает только ответ на последний запрос.
func (c *Client) runSearch(q search.Query) {
	if c.ctx.Err() != nil {
		return
	}

	ctx, gen := c.beginSearch()
	defer c.endSearch(gen)

	c.enqueue(Message{Type: MessageLoading})
	msg := c.searcher.Search(ctx, q)
	if !c.isCurrentSearch(gen) {
		return
	}
	c.enqueue(msg)
}

func (c *Client) beginSearch() (context.Context, uint64) {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	if c.searchCancel != nil {
		c.searchCancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.searchGen++
	c.searchCancel = cancel
	return ctx, c.searchGen
}

func (c *Client) isCurrentSearch(gen uint64) bool {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	return gen == c.searchGen && c.ctx.Err() == nil
}

func (c *Client) endSearch(gen uint64) {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	if gen == c.searchGen && c.searchCancel != nil {
		c.searchCancel()
		c.searchCancel = nil
	}
}

func (c *Client) enqueue(msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		logger.L().WithFields(logrus.Fields{"error": err.Error()}).Error("ws: не удалось сериализовать сообщение")
		return
	}

	select {
	case <-c.ctx.Done():
	case c.send <- raw:
	default:
		logger.L().WithFields(logrus.Fields{"session": c.sessionID}).Warn("ws send buffer full, dropping message")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
