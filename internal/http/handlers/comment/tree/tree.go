// Package tree отдаёт комментарии поста в виде дерева ответов.
package tree

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

// Handler обрабатывает запросы дерева комментариев.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service строит дерево комментариев поста.
type Service interface {
	Tree(ctx context.Context, blogID string) ([]*models.CommentNode, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Дерево комментариев поста
// @Description Ответы на удалённые или неизвестные комментарии показываются на верхнем уровне.
// @Tags Comments
// @Produce  json
// @Param blogId path string true "ID поста"
// @Success 200 {object} response.Response{data=[]models.CommentNode}
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /comments/blog/{blogId}/tree [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.tree"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	forest, err := h.service.Tree(r.Context(), chi.URLParam(r, "blogId"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(forest))
}
