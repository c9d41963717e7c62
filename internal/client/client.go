// Package client содержит HTTP-клиент API платформы и состояние пользовательской сессии.
//
// Client прикладывает сохранённый access-токен, держит refresh-cookie в cookie jar
// и один раз обновляет токен при ответе 401. Session хранит текущего пользователя
// поверх Client и TokenStore.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// refreshTimeout ограничивает общий запрос обновления токена.
// Он не зависит от контекста вызывающего, начавшего обновление.
const refreshTimeout = 10 * time.Second

// ErrSessionExpired возвращается, когда refresh-токен больше не принимается.
// Локальное состояние к этому моменту уже очищено.
var ErrSessionExpired = errors.New("session expired")

// APIError описывает ответ сервера со статусом ошибки.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized сообщает, что сервер отказал из-за учётных данных.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// Client обращается к API и автоматически обновляет access-токен.
type Client struct {
	baseURL   string
	http      *http.Client
	store     TokenStore
	log       *slog.Logger
	onExpired func()
	refreshes singleflight.Group
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт HTTP-клиент. Если у него нет cookie jar, он будет создан.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger задаёт логгер клиента.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// OnSessionExpired задаёт обработчик истечения сессии, например переход на экран входа.
func OnSessionExpired(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

// New создаёт клиент для API с базовым адресом вида http://host/api.
func New(baseURL string, store TokenStore, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		store:   store,
		log:     sl.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client.New: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// do выполняет запрос и раскладывает поле data ответа в out.
// На 401 для запроса с сохранённым токеном один раз обновляет токен и повторяет запрос.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	const op = "client.do"

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	state, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = c.send(ctx, method, path, payload, state.AccessToken, out)
	if state.AccessToken == "" || !IsUnauthorized(err) {
		return err
	}

	token, err := c.refresh(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return c.expire()
		}
		return err
	}

	err = c.send(ctx, method, path, payload, token, out)
	if IsUnauthorized(err) {
		return c.expire()
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// refresh обменивает refresh-cookie на новый access-токен и сохраняет его.
// Одновременные вызовы разделяют один запрос к серверу, поэтому отмена
// контекста первого вызывающего не прерывает обновление для остальных.
func (c *Client) refresh(ctx context.Context) (string, error) {
	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		var out models.RefreshResponse
		if err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, "", &out); err != nil {
			return "", err
		}
		state, err := c.store.Load()
		if err != nil {
			return "", err
		}
		state.AccessToken = out.AccessToken
		if err := c.store.Save(state); err != nil {
			return "", err
		}
		return out.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) expire() error {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear token store", sl.Err(err))
	}
	c.log.Info("session expired")
	if c.onExpired != nil {
		c.onExpired()
	}
	return ErrSessionExpired
}
