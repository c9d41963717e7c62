// Package list отдаёт плоский список комментариев поста по возрастанию времени.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Handler обрабатывает запросы списка комментариев.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение комментариев поста.
type Service interface {
	List(ctx context.Context, blogID string) ([]models.Comment, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Комментарии поста
// @Tags Comments
// @Produce  json
// @Param blogId path string true "ID поста"
// @Success 200 {object} response.Response{data=[]models.Comment}
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /comments/blog/{blogId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	comments, err := h.service.List(r.Context(), chi.URLParam(r, "blogId"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(comments))
}
