// Package list реализует HTTP-обработчик списка постов, от новых к старым.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Handler обрабатывает запросы списка постов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение списка постов.
type Service interface {
	List(ctx context.Context) ([]*models.Blog, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список постов
// @Tags Blogs
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Blog}
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /blogs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	blogs, err := h.service.List(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Debug("blogs listed", slog.Int("count", len(blogs)))
	render.JSON(w, r, response.StatusOKWithData(blogs))
}
