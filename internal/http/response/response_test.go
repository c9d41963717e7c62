package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blog-platform/internal/lib/errs"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return got
}

func TestFromError(t *testing.T) {
	notFound := errs.New(errs.NotFound, "Blog not found")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"typed", notFound, http.StatusNotFound, "Blog not found"},
		{"wrapped", fmt.Errorf("op: %w", notFound), http.StatusNotFound, "Blog not found"},
		{"forbidden", errs.New(errs.Forbidden, "nope"), http.StatusForbidden, "nope"},
		{"internal hides details", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			FromError(rec, req, sl.Discard(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			got := decode(t, rec)
			assert.Equal(t, StatusError, got["status"])
			assert.Equal(t, tt.wantMsg, got["error"])
		})
	}
}

func TestValidate(t *testing.T) {
	type request struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}
	v := validator.New()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	ok := Validate(rec, req, sl.Discard(), v, request{Email: "bad", Password: "123"})
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "field Email must be a valid email, field Password must be at least 6 characters", got["error"])

	rec = httptest.NewRecorder()
	assert.True(t, Validate(rec, req, sl.Discard(), v, request{Email: "a@b.co", Password: "123456"}))
	assert.Zero(t, rec.Body.Len())
}

func TestMessage(t *testing.T) {
	b, err := json.Marshal(Message("Logged out successfully"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","data":{"message":"Logged out successfully"}}`, string(b))
}
