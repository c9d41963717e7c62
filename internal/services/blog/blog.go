// Package services содержит операции над постами: чтение с кешем, создание, изменение
// и удаление с правилом владельца, список категорий и загрузку обложек.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/blog-platform/internal/lib/errs"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

// Ошибки операций с постами.
var (
	ErrBlogNotFound  = errs.New(errs.NotFound, "Blog not found")
	ErrNotAuthorized = errs.New(errs.Forbidden, "Not authorized to modify this blog")
	ErrAuthorOnly    = errs.New(errs.Forbidden, "Only authors and admins can publish")
)

const slugAttempts = 3

// BlogRepository определяет методы хранилища постов.
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlog(ctx context.Context, id string) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	ListBlogs(ctx context.Context) ([]*models.Blog, error)
	ListBlogsByTag(ctx context.Context, tag string) ([]*models.Blog, error)
	ListBlogsByAuthor(ctx context.Context, authorID string) ([]*models.Blog, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateBlog(ctx context.Context, blog *models.Blog) error
	DeleteBlog(ctx context.Context, id string) error
}

// Cache кеш постов по slug.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// ImageStore хранит загруженные обложки.
type ImageStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
	Remove(url string) error
}

// Slugger строит уникальный slug по заголовку.
type Slugger interface {
	Make(title string) string
}

// BlogService реализует операции над постами. cache может быть nil.
type BlogService struct {
	repo     BlogRepository
	cache    Cache
	images   ImageStore
	slugs    Slugger
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewBlogService создает новый экземпляр BlogService.
func NewBlogService(log *slog.Logger, repo BlogRepository, cache Cache, images ImageStore, slugs Slugger, cacheTTL time.Duration) *BlogService {
	return &BlogService{
		repo:     repo,
		cache:    cache,
		images:   images,
		slugs:    slugs,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// SlugCacheKey возвращает ключ кеша поста с данным slug.
func SlugCacheKey(slug string) string {
	return "blog:slug:" + slug
}

func notFound(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrBlogNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// List возвращает все посты, новые первыми.
func (s *BlogService) List(ctx context.Context) ([]*models.Blog, error) {
	const op = "services.blog.List"
	blogs, err := s.repo.ListBlogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return blogs, nil
}

// ListByTag возвращает посты с тегом.
func (s *BlogService) ListByTag(ctx context.Context, tag string) ([]*models.Blog, error) {
	const op = "services.blog.ListByTag"
	blogs, err := s.repo.ListBlogsByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return blogs, nil
}

// ListByAuthor возвращает посты автора.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Blog, error) {
	const op = "services.blog.ListByAuthor"
	blogs, err := s.repo.ListBlogsByAuthor(ctx, authorID)
	if errors.Is(err, storage.ErrNotFound) {
		return []*models.Blog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return blogs, nil
}

// Categories возвращает различные категории постов.
func (s *BlogService) Categories(ctx context.Context) ([]string, error) {
	const op = "services.blog.Categories"
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cats, nil
}

// Get возвращает пост по ID.
func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	const op = "services.blog.Get"
	b, err := s.repo.GetBlog(ctx, id)
	if err != nil {
		return nil, notFound(op, err)
	}
	return b, nil
}

// GetBySlug возвращает пост по slug, сначала из кеша. Ошибки кеша не прерывают чтение.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	const op = "services.blog.GetBySlug"
	log := s.log.With(sl.Op(op), slog.String("slug", slug))

	if s.cache != nil {
		var cached models.Blog
		found, err := s.cache.Get(ctx, SlugCacheKey(slug), &cached)
		if err != nil {
			log.Warn("cache read failed", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	b, err := s.repo.GetBlogBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(op, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, SlugCacheKey(slug), b, s.cacheTTL); err != nil {
			log.Warn("cache write failed", sl.Err(err))
		}
	}
	return b, nil
}

// Create публикует пост от имени автора.
func (s *BlogService) Create(ctx context.Context, actor *models.User, in models.BlogInput) (*models.Blog, error) {
	const op = "services.blog.Create"
	if actor == nil || !actor.Role.In(models.RoleAuthor, models.RoleAdmin) {
		return nil, ErrAuthorOnly
	}

	blog := &models.Blog{
		Title:    strings.TrimSpace(in.Title),
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Category: in.Category,
		Tags:     cleanTags(in.Tags),
		AuthorID: actor.ID,
	}

	var err error
	for range slugAttempts {
		blog.Slug = s.slugs.Make(blog.Title)
		if err = s.repo.CreateBlog(ctx, blog); !errors.Is(err, storage.ErrSlugTaken) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	blog.Author = &models.AuthorSummary{ID: actor.ID, Name: actor.Name, AvatarURL: actor.AvatarURL, Bio: actor.Bio}
	return blog, nil
}

// Update меняет непустые поля поста. Смена заголовка перевыпускает slug,
// смена обложки удаляет прежний локальный файл.
func (s *BlogService) Update(ctx context.Context, actor *models.User, id string, patch models.BlogPatch) (*models.Blog, error) {
	const op = "services.blog.Update"
	blog, err := s.repo.GetBlog(ctx, id)
	if err != nil {
		return nil, notFound(op, err)
	}
	if !models.CanModify(actor, blog.AuthorID) {
		return nil, ErrNotAuthorized
	}

	oldSlug, oldImage := blog.Slug, blog.ImageURL
	titleChanged := false
	if t := strings.TrimSpace(patch.Title); t != "" && t != blog.Title {
		blog.Title = t
		titleChanged = true
	}
	if patch.Excerpt != "" {
		blog.Excerpt = patch.Excerpt
	}
	if patch.Content != "" {
		blog.Content = patch.Content
	}
	if patch.ImageURL != "" {
		blog.ImageURL = patch.ImageURL
	}
	if patch.Category != "" {
		blog.Category = patch.Category
	}
	if len(patch.Tags) > 0 {
		blog.Tags = cleanTags(patch.Tags)
	}

	for attempt := 0; ; attempt++ {
		if titleChanged {
			blog.Slug = s.slugs.Make(blog.Title)
		}
		err = s.repo.UpdateBlog(ctx, blog)
		if !titleChanged || !errors.Is(err, storage.ErrSlugTaken) || attempt+1 >= slugAttempts {
			break
		}
	}
	if err != nil {
		return nil, notFound(op, err)
	}

	s.invalidate(ctx, op, oldSlug, blog.Slug)
	if oldImage != blog.ImageURL {
		s.removeImage(op, oldImage)
	}
	return blog, nil
}

// Delete удаляет пост вместе с комментариями и локальной обложкой.
func (s *BlogService) Delete(ctx context.Context, actor *models.User, id string) error {
	const op = "services.blog.Delete"
	blog, err := s.repo.GetBlog(ctx, id)
	if err != nil {
		return notFound(op, err)
	}
	if !models.CanModify(actor, blog.AuthorID) {
		return ErrNotAuthorized
	}
	if err := s.repo.DeleteBlog(ctx, id); err != nil {
		return notFound(op, err)
	}
	s.invalidate(ctx, op, blog.Slug)
	s.removeImage(op, blog.ImageURL)
	return nil
}

// UploadImage сохраняет обложку и возвращает её публичный адрес.
func (s *BlogService) UploadImage(ctx context.Context, ext string, r io.Reader) (string, error) {
	const op = "services.blog.UploadImage"
	url, err := s.images.Save(ctx, ext, r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}

func (s *BlogService) invalidate(ctx context.Context, op string, slugs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, SlugCacheKey(slug))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("cache invalidation failed", sl.Op(op), sl.Err(err))
	}
}

func (s *BlogService) removeImage(op, url string) {
	if url == "" {
		return
	}
	if err := s.images.Remove(url); err != nil {
		s.log.Warn("failed to remove image", sl.Op(op), slog.String("image", url), sl.Err(err))
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
