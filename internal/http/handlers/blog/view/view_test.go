package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	services "github.com/magabrotheeeer/blog-platform/internal/services/views"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Record(ctx context.Context, blogID string) error {
	return m.Called(ctx, blogID).Error(0)
}

func TestViewHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("Record", mock.Anything, "b1").Return(nil).Once()
	svc.On("Record", mock.Anything, "gone").Return(services.ErrBlogNotFound).Once()
	h := New(sl.Discard(), svc)

	do := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/blogs/"+id+"/view", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("b1").Code)
	assert.Equal(t, http.StatusNotFound, do("gone").Code)
	svc.AssertExpectations(t)
}
