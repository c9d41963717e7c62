// Package remove реализует HTTP-обработчик удаления поста вместе с комментариями.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Handler обрабатывает запросы удаления поста.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление поста.
type Service interface {
	Delete(ctx context.Context, actor *models.User, id string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление поста
// @Tags Blogs
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID поста"
// @Success 200 {object} response.Response{data=response.MessageData}
// @Failure 403 {object} response.ErrorResponse "Не владелец"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /blogs/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("blog deleted", slog.String("blog_id", id), slog.String("actor_id", actor.ID))
	render.JSON(w, r, response.Message("Blog removed"))
}
