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
	services "github.com/magabrotheeeer/blog-platform/internal/services/comment"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, actor *models.User, in models.CommentInput) (*models.Comment, error) {
	args := m.Called(ctx, actor, in)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func TestCreateCommentHandler(t *testing.T) {
	user := &models.User{ID: "u1", Name: "Jane Doe", Role: models.RoleUser}
	const blogID = "7f1c3b5e-1d2a-4c1b-9a51-0d7d4c1f2e3a"
	const parentID = "2b8e4a9c-6f1d-4e7a-8c3b-5d9f1a2e4b6c"

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "reply",
			body: `{"content":"nice","blogId":"` + blogID + `","parentCommentId":"` + parentID + `"}`,
			setupMock: func(m *MockService) {
				p := parentID
				m.On("Create", mock.Anything, user, models.CommentInput{Content: "nice", BlogID: blogID, ParentCommentID: parentID}).
					Return(&models.Comment{ID: "c2", Content: "nice", BlogID: blogID, ParentID: &p}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"parentComment":"` + parentID + `"`,
		},
		{
			name: "parent in another post",
			body: `{"content":"nice","blogId":"` + blogID + `","parentCommentId":"` + parentID + `"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, user, mock.Anything).Return(nil, services.ErrParentOtherBlog)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "blog gone",
			body: `{"content":"nice","blogId":"` + blogID + `"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, user, mock.Anything).Return(nil, services.ErrBlogNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"Blog not found"`,
		},
		{
			name:           "blog id is not a uuid",
			body:           `{"content":"nice","blogId":"abc"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field BlogID can contain only uuid`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/comments", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
