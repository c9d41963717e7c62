package logout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/cookie"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Logout(ctx context.Context, presented string) {
	m.Called(ctx, presented)
}

func TestLogoutHandler(t *testing.T) {
	for _, presented := range []string{"", "some-token"} {
		svc := new(MockService)
		svc.On("Logout", mock.Anything, presented).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		if presented != "" {
			req.AddCookie(&http.Cookie{Name: cookie.Name, Value: presented})
		}
		w := httptest.NewRecorder()
		New(sl.Discard(), svc, cookie.Config{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"OK","data":{"message":"Logged out successfully"}}`, w.Body.String())
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cookie.Name, cookies[0].Name)
		assert.Negative(t, cookies[0].MaxAge)
		svc.AssertExpectations(t)
	}
}
