// Package blogs отдаёт посты автора.
package blogs

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

// Handler обрабатывает запросы постов автора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку постов автора.
type Service interface {
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Blog, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Посты автора
// @Tags Users
// @Produce  json
// @Param id path string true "ID автора"
// @Success 200 {object} response.Response{data=[]models.Blog}
// @Router /users/{id}/blogs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.blogs"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	blogs, err := h.service.ListByAuthor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(blogs))
}
