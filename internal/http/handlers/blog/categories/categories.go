// Package categories отдаёт список различных категорий постов.
package categories

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/response"
)

// Handler обрабатывает запросы списка категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение категорий.
type Service interface {
	Categories(ctx context.Context) ([]string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Категории постов
// @Tags Blogs
// @Produce  json
// @Success 200 {object} response.Response{data=[]string}
// @Router /blogs/categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.categories"

	categories, err := h.service.Categories(r.Context())
	if err != nil {
		response.FromError(w, r, h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		), err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(categories))
}
