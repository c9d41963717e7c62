// Package bytag отдаёт посты с заданным тегом.
package bytag

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Handler обрабатывает запросы постов по тегу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку постов по тегу.
type Service interface {
	ListByTag(ctx context.Context, tag string) ([]*models.Blog, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Посты по тегу
// @Tags Blogs
// @Produce  json
// @Param tag path string true "Тег"
// @Success 200 {object} response.Response{data=[]models.Blog}
// @Router /blogs/tags/{tag} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.bytag"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tag := strings.TrimSpace(chi.URLParam(r, "tag"))
	if tag == "" {
		response.WriteError(w, r, http.StatusBadRequest, "tag is required")
		return
	}
	blogs, err := h.service.ListByTag(r.Context(), tag)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(blogs))
}
