// Package middlewarectx содержит HTTP middleware: проверку access-токена, проверку ролей,
// ограничение частоты запросов и сбор метрик.
//
// Authenticate проверяет заголовок Authorization и кладёт в контекст запроса профиль
// пользователя без секретов. RequireRoles пропускает только пользователей с ролью из
// списка. Правило "владелец или администратор" проверяется в сервисах через
// models.CanModify поверх проверки роли.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User ключ для профиля пользователя в контексте.
const User Key = "user"

const (
	msgNoToken   = "Not authorized, no token"
	msgNoUser    = "Not authorized"
	msgForbidden = "Forbidden: insufficient role"
)

// Authenticator проверяет access-токен и возвращает профиль пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// WithUser возвращает контекст с профилем пользователя.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, User, u)
}

// UserFrom достаёт профиль пользователя из контекста.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(User).(*models.User)
	return u, ok && u != nil
}

// BearerToken извлекает токен из заголовка Authorization.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// Authenticate возвращает HTTP middleware, который проверяет access-токен в заголовке Authorization.
//
// Если токен валиден и пользователь существует, профиль добавляется в контекст запроса,
// иначе возвращается ошибка с HTTP статусом 401 Unauthorized.
func Authenticate(log *slog.Logger, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := BearerToken(r)
			if !ok {
				log.Info("missing or invalid authorization header")
				response.WriteError(w, r, http.StatusUnauthorized, msgNoToken)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.FromError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRoles пропускает запрос, только если роль пользователя входит в allowed.
// Должен стоять после Authenticate.
func RequireRoles(log *slog.Logger, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				response.WriteError(w, r, http.StatusUnauthorized, msgNoUser)
				return
			}
			if !user.Role.In(allowed...) {
				log.Info("role not allowed",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("user_id", user.ID),
					slog.String("role", user.Role.String()),
				)
				response.WriteError(w, r, http.StatusForbidden, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
