// Package refresh реализует обмен refresh-токена из cookie на новый access-токен.
package refresh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/cookie"
	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Handler обрабатывает запросы обновления access-токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает обмен refresh-токена.
type Service interface {
	Refresh(ctx context.Context, presented string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновление access-токена
// @Description Принимает refresh-токен из cookie refreshToken и выдаёт новый access-токен.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response{data=models.RefreshResponse}
// @Failure 401 {object} response.ErrorResponse "Нет refresh-токена"
// @Failure 403 {object} response.ErrorResponse "Невалидный или отозванный refresh-токен"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	access, err := h.service.Refresh(r.Context(), cookie.Read(r))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(models.RefreshResponse{AccessToken: access}))
}
