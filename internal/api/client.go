package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/pkg/apperror"
)

// Recorder принимает замеры обращений к бэкенду (реализуется метриками).
type Recorder interface {
	ObserveBackendCall(op string, status int, elapsed time.Duration)
}

// Client обёртка над REST API бэкенда: вызовы методов превращаются в HTTP запросы.
type Client struct {
	baseURL    string
	httpClient *http.Client
	recorder   Recorder
}

// Option настраивает клиента.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (тесты, кастомный транспорт).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRecorder подключает сбор метрик.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request описывает один вызов API.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// errorBody формат ошибок бэкенда.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do выполняет запрос и декодирует JSON ответ в out (если out != nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("api: %s: не удалось сериализовать тело: %w", r.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("api: %s: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r.op, 0, started)
		if errors.Is(err, context.Canceled) {
			return err
		}
		logger.L().WithFields(logrus.Fields{"op": r.op, "error": err.Error()}).Warn("backend request failed")
		return apperror.Wrap(err, apperror.ErrCodeUnavailable, "backend unavailable")
	}
	defer resp.Body.Close()
	c.observe(r.op, resp.StatusCode, started)

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(r.op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUpstream, "malformed backend response")
	}
	return nil
}

// decodeError превращает ответ с кодом >= 400 в AppError с текстом бэкенда.
func (c *Client) decodeError(op string, resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	_ = json.Unmarshal(raw, &eb)

	message := eb.Error
	if message == "" {
		message = eb.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	logger.L().WithFields(logrus.Fields{
		"op":     op,
		"status": resp.StatusCode,
		"error":  message,
	}).Warn("backend returned error")

	return apperror.FromStatus(resp.StatusCode, message)
}

func (c *Client) observe(op string, status int, started time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveBackendCall(op, status, time.Since(started))
	}
}

// Ping проверяет, что бэкенд отвечает (любой HTTP ответ считается живым).
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUnavailable, "backend unavailable")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
