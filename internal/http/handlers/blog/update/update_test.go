package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/blog-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	services "github.com/magabrotheeeer/blog-platform/internal/services/blog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, actor *models.User, id string, patch models.BlogPatch) (*models.Blog, error) {
	args := m.Called(ctx, actor, id, patch)
	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	other := &models.User{ID: "a2", Role: models.RoleAuthor}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "updated",
			body: `{"title":"New"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, other, "b1", models.BlogPatch{Title: "New"}).
					Return(&models.Blog{ID: "b1", Title: "New"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"New"`,
		},
		{
			name: "not the owner",
			body: `{"title":"New"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, other, "b1", models.BlogPatch{Title: "New"}).
					Return(nil, services.ErrNotAuthorized)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"Not authorized to modify this blog"`,
		},
		{
			name:           "bad json",
			body:           `[`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, "/api/blogs/b1", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "b1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithUser(ctx, other))

			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
