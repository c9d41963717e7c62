package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Session хранит состояние входа пользователя. Пока не вызван Hydrate, Loading возвращает true.
type Session struct {
	mu      sync.RWMutex
	client  *Client
	store   TokenStore
	log     *slog.Logger
	user    *models.User
	loading bool
}

// NewSession создаёт сессию. store должен быть тем же, что передан в Client.
func NewSession(client *Client, store TokenStore, log *slog.Logger) *Session {
	return &Session{client: client, store: store, log: log, loading: true}
}

// Hydrate восстанавливает пользователя по сохранённому токену.
// При любой ошибке состояние очищается, а сессия остаётся гостевой.
func (s *Session) Hydrate(ctx context.Context) {
	const op = "client.Session.Hydrate"
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	state, err := s.store.Load()
	if err != nil || state.AccessToken == "" {
		if err != nil {
			s.log.Warn("failed to load token store", sl.Op(op), sl.Err(err))
		}
		s.reset()
		return
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.log.Info("session is invalid, logging out", sl.Op(op), sl.Err(err))
		s.reset()
		return
	}
	s.setUser(user)
}

// Login входит и сохраняет токен и профиль.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(State{AccessToken: resp.AccessToken, User: resp.User}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = resp.User
	s.mu.Unlock()
	return resp.User, nil
}

// Register регистрирует пользователя, не меняя состояние сессии.
func (s *Session) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.client.Register(ctx, models.RegisterRequest{Name: name, Email: email, Password: password})
}

// Logout очищает состояние, даже если запрос к серверу не удался.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn("logout request failed, clearing local session", sl.Err(err))
	}
	s.reset()
}

// ToggleFavorite переключает избранное. Состояние меняется только по ответу сервера.
// Для гостя ничего не делает.
func (s *Session) ToggleFavorite(ctx context.Context, blogID string) error {
	if !s.IsAuthenticated() {
		return nil
	}
	user, err := s.client.ToggleFavorite(ctx, blogID)
	if errors.Is(err, ErrSessionExpired) {
		s.reset()
		return err
	}
	if err != nil {
		return err
	}
	s.setUser(user)
	return nil
}

// User возвращает копию текущего пользователя или nil для гостя.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Favorites = append([]string(nil), s.user.Favorites...)
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) setUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	state, err := s.store.Load()
	if err != nil {
		s.log.Warn("failed to load token store", sl.Err(err))
		return
	}
	state.User = user
	if err := s.store.Save(state); err != nil {
		s.log.Warn("failed to save session", sl.Err(err))
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		s.log.Warn("failed to clear token store", sl.Err(err))
	}
}
