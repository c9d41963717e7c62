// Package read реализует HTTP-обработчик чтения поста по slug.
//
// Handler извлекает slug из URL-параметров и возвращает пост вместе с кратким
// профилем автора. Если поста нет, возвращается 404.
package read

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

// Handler обрабатывает запросы на получение поста.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики постов
}

// Service описывает интерфейс бизнес-логики чтения поста.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Пост по slug
// @Tags Blogs
// @Produce  json
// @Param slug path string true "Slug поста"
// @Success 200 {object} response.Response{data=models.Blog}
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /blogs/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	blog, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(blog))
}
