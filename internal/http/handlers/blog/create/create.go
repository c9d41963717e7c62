// Package create реализует HTTP-обработчик создания поста.
//
// Доступен авторам и администраторам; автором поста становится текущий пользователь.
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

// Handler обрабатывает запросы создания поста.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание поста.
type Service interface {
	Create(ctx context.Context, actor *models.User, in models.BlogInput) (*models.Blog, error)
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
// @Summary Создание поста
// @Tags Blogs
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.BlogInput true "Пост"
// @Success 201 {object} response.Response{data=models.Blog}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /blogs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req models.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if !response.Validate(w, r, log, h.validate, req) {
		return
	}

	blog, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("blog created", slog.String("blog_id", blog.ID), slog.String("slug", blog.Slug))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(blog))
}
