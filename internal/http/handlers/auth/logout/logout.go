// Package logout реализует выход пользователя. Ответ всегда успешный.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/cookie"
	"github.com/magabrotheeeer/blog-platform/internal/http/response"
)

// Handler обрабатывает запросы выхода.
type Handler struct {
	log     *slog.Logger
	service Service
	cookie  cookie.Config
}

// Service отзывает refresh-токен.
type Service interface {
	Logout(ctx context.Context, presented string)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cookieCfg cookie.Config) *Handler {
	return &Handler{log: log, service: service, cookie: cookieCfg}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Отзывает сохранённый refresh-токен и удаляет cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response{data=response.MessageData}
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	h.service.Logout(r.Context(), cookie.Read(r))
	h.cookie.Clear(w)

	h.log.Info("logged out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, response.Message("Logged out successfully"))
}
