package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/blog-platform/internal/app/blogplatform"
	"github.com/magabrotheeeer/blog-platform/internal/app/cli"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/cookie"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage/memory"
	"github.com/magabrotheeeer/blog-platform/internal/storage/uploads"
)

type env struct {
	api     string
	session string
	blog    *models.Blog
}

func newEnv(t *testing.T) env {
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

	ctx := context.Background()
	author, err := svc.Auth.Register(ctx, models.RegisterRequest{Name: "Alex Smith", Email: "alex@example.com", Password: "Password123"})
	require.NoError(t, err)
	require.NoError(t, store.UpdateRole(ctx, author.ID, models.RoleAuthor))
	author.Role = models.RoleAuthor
	_, err = svc.Auth.Register(ctx, models.RegisterRequest{Name: "Jane Doe", Email: "jane@example.com", Password: "Password123"})
	require.NoError(t, err)

	b, err := svc.Blogs.Create(ctx, author, models.BlogInput{
		Title: "Hello World", Excerpt: "First post", Content: "c", ImageURL: "https://example.com/a.png",
		Category: "Tech", Tags: []string{"go"},
	})
	require.NoError(t, err)
	root, err := svc.Comments.Create(ctx, author, models.CommentInput{Content: "Welcome", BlogID: b.ID})
	require.NoError(t, err)
	_, err = svc.Comments.Create(ctx, author, models.CommentInput{Content: "Thanks", BlogID: b.ID, ParentCommentID: root.ID})
	require.NoError(t, err)

	return env{api: srv.URL + "/api", session: filepath.Join(t.TempDir(), "cli", "session.json"), blog: b}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := cli.Run(context.Background(), append([]string{"-api", e.api, "-session", e.session}, args...), &out, sl.Discard())
	return out.String(), err
}

func TestRun_SessionAcrossInvocations(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "guest\n", out)

	_, err = e.run(t, "favorite", e.blog.Slug)
	assert.ErrorIs(t, err, cli.ErrLoginRequired)

	out, err = e.run(t, "login", "-email", "jane@example.com", "-password", "Password123")
	require.NoError(t, err)
	assert.Equal(t, "logged in as Jane Doe (User)\n", out)

	info, err := os.Stat(e.session)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err = e.run(t, "favorite", e.blog.Slug)
	require.NoError(t, err)
	assert.Equal(t, e.blog.Slug+" added to favorites\n", out)

	out, err = e.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe <jane@example.com>")
	assert.Contains(t, out, "favorites: 1")

	out, err = e.run(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "logged out\n", out)

	out, err = e.run(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "guest\n", out)
}

func TestRun_ReadCommands(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "post", e.blog.Slug)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Hello World\nby Alex Smith in Tech [go]"))

	out, err = e.run(t, "posts")
	require.NoError(t, err)
	assert.Equal(t, e.blog.Slug+"\tHello World\t1 views\n", out)

	out, err = e.run(t, "comments", e.blog.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Alex Smith: Welcome\n  Alex Smith: Thanks\n2 comments\n", out)
}

func TestRun_Usage(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t)
	assert.ErrorIs(t, err, cli.ErrUsage)
	_, err = e.run(t, "unknown")
	assert.ErrorIs(t, err, cli.ErrUsage)
	_, err = e.run(t, "post")
	assert.ErrorIs(t, err, cli.ErrUsage)
	_, err = e.run(t, "login", "-email", "jane@example.com", "-password", "")
	assert.ErrorIs(t, err, cli.ErrUsage)
}
