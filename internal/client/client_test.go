package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// fakeAPI принимает только токен "fresh"; refresh выдаёт его, пока refreshOK.
type fakeAPI struct {
	refreshOK atomic.Bool
	refreshes atomic.Int32
	protected atomic.Int32
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	writeJSON := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}
	r.Get("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.protected.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "Error", "error": "Not authorized, token failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "OK", "data": map[string]string{"id": "u1", "name": "Jane"}})
	})
	r.Post("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes.Add(1)
		if !f.refreshOK.Load() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "Error", "error": "Not authorized, no refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "OK", "data": map[string]string{"accessToken": "fresh"}})
	})
	r.Get("/api/blogs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "Error", "error": "internal server error"})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RefreshesOnceAndRetries(t *testing.T) {
	api := &fakeAPI{}
	api.refreshOK.Store(true)
	srv := api.server(t)

	store := NewMemoryStore()
	require.NoError(t, store.Save(State{AccessToken: "stale", User: &models.User{ID: "u1"}}))
	c, err := New(srv.URL+"/api", store)
	require.NoError(t, err)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, int32(1), api.refreshes.Load())
	assert.Equal(t, int32(2), api.protected.Load())

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh", state.AccessToken)
	assert.Equal(t, "u1", state.User.ID)
}

func TestClient_SessionExpired(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	store := NewMemoryStore()
	require.NoError(t, store.Save(State{AccessToken: "stale"}))
	var expired atomic.Int32
	c, err := New(srv.URL+"/api", store, OnSessionExpired(func() { expired.Add(1) }))
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, int32(1), api.refreshes.Load())

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.AccessToken)
}

func TestClient_RefreshOutlivesCancelledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	r := chi.NewRouter()
	r.Post("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "data": map[string]string{"accessToken": "fresh"}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := NewMemoryStore()
	require.NoError(t, store.Save(State{AccessToken: "stale"}))
	c, err := New(srv.URL+"/api", store)
	require.NoError(t, err)

	type result struct {
		token string
		err   error
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan result, 1)
	go func() {
		token, err := c.refresh(ctx)
		done <- result{token: token, err: err}
	}()

	<-started
	cancel()
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "fresh", res.token)
	assert.Equal(t, int32(1), calls.Load())

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh", state.AccessToken)
}

func TestClient_NoTokenNoRefresh(t *testing.T) {
	api := &fakeAPI{}
	api.refreshOK.Store(true)
	srv := api.server(t)

	c, err := New(srv.URL+"/api", NewMemoryStore())
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(0), api.refreshes.Load())
}

func TestClient_APIError(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	c, err := New(srv.URL+"/api", NewMemoryStore())
	require.NoError(t, err)

	_, err = c.ListBlogs(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "internal server error", apiErr.Message)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "state.json")
	store := NewFileStore(path)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.AccessToken)

	require.NoError(t, store.Save(State{AccessToken: "token", User: &models.User{ID: "u1", Favorites: []string{"b1"}}}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	state, err = NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "token", state.AccessToken)
	assert.Equal(t, []string{"b1"}, state.User.Favorites)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
