// Package view регистрирует просмотр поста.
package view

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/response"
)

// Handler обрабатывает запросы регистрации просмотра.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает регистрацию просмотра.
type Service interface {
	Record(ctx context.Context, blogID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Просмотр поста
// @Description Увеличивает счётчик просмотров сразу или через очередь.
// @Tags Blogs
// @Produce  json
// @Param id path string true "ID поста"
// @Success 200 {object} response.Response{data=response.MessageData}
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /blogs/{id}/view [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.view"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Record(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.Message("View recorded"))
}
