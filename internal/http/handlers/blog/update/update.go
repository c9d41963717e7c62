// Package update реализует HTTP-обработчик изменения поста.
//
// Изменять пост может его автор или администратор. Пустые поля запроса
// оставляют прежние значения.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/blog-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Handler обрабатывает запросы изменения поста.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает изменение поста.
type Service interface {
	Update(ctx context.Context, actor *models.User, id string, patch models.BlogPatch) (*models.Blog, error)
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
// @Summary Изменение поста
// @Tags Blogs
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID поста"
// @Param request body models.BlogPatch true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.Blog}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 403 {object} response.ErrorResponse "Не владелец"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /blogs/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req models.BlogPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if !response.Validate(w, r, log, h.validate, req) {
		return
	}

	blog, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("blog updated", slog.String("blog_id", blog.ID))
	render.JSON(w, r, response.StatusOKWithData(blog))
}
