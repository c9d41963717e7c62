package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/blog-platform/internal/app/blogplatform"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/cookie"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage/memory"
	"github.com/magabrotheeeer/blog-platform/internal/storage/uploads"
)

type platform struct {
	url   string
	store *memory.Storage
	svc   blogplatform.Services
}

func newPlatform(t *testing.T) platform {
	t.Helper()
	cfg := &config.Config{
		JWTToken: config.JWTToken{
			AccessSecret: "access-secret", RefreshSecret: "refresh-secret",
			AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour,
		},
		BcryptCost: bcrypt.MinCost,
	}
	store := memory.New()
	images, err := uploads.New(t.TempDir())
	require.NoError(t, err)
	svc := blogplatform.NewServices(cfg, sl.Discard(), store, nil, nil, images)

	router := chi.NewRouter()
	require.NoError(t, blogplatform.RegisterRoutes(router, sl.Discard(), svc, blogplatform.Options{
		Cookie:     cookie.Config{TTL: svc.Auth.RefreshTTL()},
		UploadsDir: images.Dir(),
		RateLimit:  config.RateLimit{RPS: 100, Burst: 100},
		Registry:   prometheus.NewRegistry(),
	}))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return platform{url: srv.URL + "/api", store: store, svc: svc}
}

func (p platform) blog(t *testing.T) *models.Blog {
	t.Helper()
	ctx := context.Background()
	author, err := p.svc.Auth.Register(ctx, models.RegisterRequest{Name: "Alex Smith", Email: "alex@example.com", Password: "Password123"})
	require.NoError(t, err)
	require.NoError(t, p.store.UpdateRole(ctx, author.ID, models.RoleAuthor))
	author.Role = models.RoleAuthor
	b, err := p.svc.Blogs.Create(ctx, author, models.BlogInput{
		Title: "Hello", Excerpt: "e", Content: "c", ImageURL: "https://example.com/a.png", Category: "Tech",
	})
	require.NoError(t, err)
	return b
}

func TestSession_Flow(t *testing.T) {
	p := newPlatform(t)
	blog := p.blog(t)
	ctx := context.Background()

	store := NewMemoryStore()
	c, err := New(p.url, store)
	require.NoError(t, err)
	s := NewSession(c, store, sl.Discard())
	assert.True(t, s.Loading())

	s.Hydrate(ctx)
	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())

	registered, err := s.Register(ctx, "Jane Doe", "jane@example.com", "Password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, registered.Role)
	assert.False(t, s.IsAuthenticated())

	user, err := s.Login(ctx, "jane@example.com", "Password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.True(t, s.IsAuthenticated())

	require.NoError(t, s.ToggleFavorite(ctx, blog.ID))
	assert.Equal(t, []string{blog.ID}, s.User().Favorites)

	err = s.ToggleFavorite(ctx, "not-a-uuid")
	assert.Error(t, err)
	assert.Equal(t, []string{blog.ID}, s.User().Favorites)

	// Новая сессия поверх того же хранилища восстанавливает пользователя.
	restored := NewSession(c, store, sl.Discard())
	restored.Hydrate(ctx)
	require.True(t, restored.IsAuthenticated())
	assert.Equal(t, user.ID, restored.User().ID)

	s.Logout(ctx)
	assert.False(t, s.IsAuthenticated())
	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.AccessToken)
}

func TestSession_HydrateClearsInvalidToken(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()

	store := NewMemoryStore()
	require.NoError(t, store.Save(State{AccessToken: "garbage", User: &models.User{ID: "ghost"}}))
	c, err := New(p.url, store)
	require.NoError(t, err)

	s := NewSession(c, store, sl.Discard())
	s.Hydrate(ctx)
	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.AccessToken)
	assert.Nil(t, state.User)
}

func TestSession_LogoutWhenServerUnreachable(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(State{AccessToken: "token", User: &models.User{ID: "u1"}}))
	c, err := New("http://127.0.0.1:1/api", store)
	require.NoError(t, err)

	s := NewSession(c, store, sl.Discard())
	s.Logout(context.Background())
	assert.False(t, s.IsAuthenticated())
	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.AccessToken)
}

func TestSession_ToggleFavoriteAsGuest(t *testing.T) {
	store := NewMemoryStore()
	c, err := New("http://127.0.0.1:1/api", store)
	require.NoError(t, err)

	s := NewSession(c, store, sl.Discard())
	assert.NoError(t, s.ToggleFavorite(context.Background(), "b1"))
	assert.Nil(t, s.User())
}
