package tree

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	services "github.com/magabrotheeeer/blog-platform/internal/services/comment"
	"github.com/magabrotheeeer/blog-platform/internal/storage/memory"
	"github.com/magabrotheeeer/blog-platform/internal/storage/storagetest"
)

func TestTreeHandler(t *testing.T) {
	store := memory.New()
	author := storagetest.MustUser(t, store, "Alex Smith", "author@example.com", models.RoleAuthor)
	blog := storagetest.MustBlog(t, store, author.ID, "Post", "post-1", "AI")
	root := storagetest.MustComment(t, store, author.ID, blog.ID, nil, "root")
	storagetest.MustComment(t, store, author.ID, blog.ID, &root.ID, "reply")

	h := New(sl.Discard(), services.NewCommentService(store, store))

	do := func(blogID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/comments/blog/"+blogID+"/tree", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("blogId", blogID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := do(blog.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data []*models.CommentNode `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got.Data, 1)
	assert.Equal(t, "root", got.Data[0].Content)
	require.Len(t, got.Data[0].Replies, 1)
	assert.Equal(t, "reply", got.Data[0].Replies[0].Content)
	assert.Empty(t, got.Data[0].Replies[0].Replies)

	assert.Equal(t, http.StatusNotFound, do("00000000-0000-0000-0000-000000000000").Code)
}
