package create

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/blog-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, actor *models.User, in models.BlogInput) (*models.Blog, error) {
	args := m.Called(ctx, actor, in)
	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	author := &models.User{ID: "a1", Name: "Alex Smith", Role: models.RoleAuthor}
	input := models.BlogInput{
		Title: "Hello", Excerpt: "short", Content: "long", ImageURL: "/uploads/x.png",
		Category: "Technology", Tags: []string{"go"},
	}
	validBody := `{"title":"Hello","excerpt":"short","content":"long","imageUrl":"/uploads/x.png","category":"Technology","tags":["go"]}`

	tests := []struct {
		name           string
		actor          *models.User
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "created",
			actor: author,
			body:  validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, author, input).Return(&models.Blog{ID: "b1", Slug: "hello-1"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"slug":"hello-1"`,
		},
		{
			name:           "missing fields",
			actor:          author,
			body:           `{"title":"Hello"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Excerpt is a required field`,
		},
		{
			name:           "no user in context",
			body:           validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"status":"Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(tt.body))
			if tt.actor != nil {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), tt.actor))
			}
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
