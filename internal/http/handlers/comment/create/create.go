// Package create реализует HTTP-обработчик создания комментария или ответа.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/blog-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Handler обрабатывает запросы создания комментария.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание комментария.
type Service interface {
	Create(ctx context.Context, actor *models.User, in models.CommentInput) (*models.Comment, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Новый комментарий
// @Tags Comments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CommentInput true "Комментарий"
// @Success 201 {object} response.Response{data=models.Comment}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или родитель не найден"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /comments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req models.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if !response.Validate(w, r, log, h.validate, req) {
		return
	}

	comment, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("comment created", slog.String("comment_id", comment.ID), slog.String("blog_id", comment.BlogID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(comment))
}
