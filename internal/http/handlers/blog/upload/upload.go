// Package upload принимает изображение обложки в поле image формы multipart/form-data.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-platform/internal/http/response"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
)

// FieldName имя поля формы с файлом.
const FieldName = "image"

// formOverhead запас на заголовки multipart сверх размера файла.
const formOverhead = 1 << 20

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Response адрес загруженного файла.
type Response struct {
	ImageURL string `json:"imageUrl" example:"/uploads/image-1700000000000.png"`
}

// Handler обрабатывает загрузку изображений.
type Handler struct {
	log     *slog.Logger
	service Service
	maxSize int64
}

// Service сохраняет изображение.
type Service interface {
	UploadImage(ctx context.Context, ext string, r io.Reader) (string, error)
}

// New создает новый экземпляр Handler. maxSize задаёт предельный размер файла в байтах.
func New(log *slog.Logger, service Service, maxSize int64) *Handler {
	return &Handler{log: log, service: service, maxSize: maxSize}
}

// ServeHTTP godoc
// @Summary Загрузка обложки
// @Tags Blogs
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param image formData file true "Изображение (jpg, png, gif, webp)"
// @Success 201 {object} response.Response{data=Response}
// @Failure 400 {object} response.ErrorResponse "Нет файла, неверный тип или слишком большой файл"
// @Router /blogs/upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+formOverhead)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, r, http.StatusBadRequest, "File too large")
			return
		}
		log.Info("failed to parse multipart form", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		response.WriteError(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > h.maxSize {
		response.WriteError(w, r, http.StatusBadRequest, "File too large")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExt[ext] {
		response.WriteError(w, r, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	url, err := h.service.UploadImage(r.Context(), ext, file)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("image uploaded", slog.String("url", url), slog.Int64("size", header.Size))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(Response{ImageURL: url}))
}
