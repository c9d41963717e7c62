package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

// CreateBlog сохраняет пост и заполняет ID и метки времени.
func (s *Storage) CreateBlog(ctx context.Context, blog *models.Blog) error {
	const op = "memory.CreateBlog"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.bySlug[blog.Slug]; taken {
		return fmt.Errorf("%s: %w", op, storage.ErrSlugTaken)
	}
	if blog.AuthorID != "" {
		if _, ok := s.users[blog.AuthorID]; !ok {
			return notFound(op)
		}
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	t := now()
	blog.ID = uuid.NewString()
	blog.CreatedAt, blog.UpdatedAt = t, t
	blog.ViewCount = 0
	s.seq++
	rec := &blogRecord{blog: *blog, seq: s.seq}
	rec.blog.Tags = append([]string{}, blog.Tags...)
	rec.blog.Author = nil
	s.blogs[blog.ID] = rec
	s.bySlug[blog.Slug] = blog.ID
	blog.Author = s.authorOf(blog.AuthorID)
	return nil
}

// GetBlog возвращает пост по ID.
func (s *Storage) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	const op = "memory.GetBlog"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.blogs[id]
	if !ok {
		return nil, notFound(op)
	}
	return s.blogCopy(r), nil
}

// GetBlogBySlug возвращает пост по slug.
func (s *Storage) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	const op = "memory.GetBlogBySlug"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySlug[slug]
	if !ok {
		return nil, notFound(op)
	}
	return s.blogCopy(s.blogs[id]), nil
}

func (s *Storage) listBlogs(ctx context.Context, op string, keep func(*models.Blog) bool) ([]*models.Blog, error) {
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*blogRecord, 0, len(s.blogs))
	for _, r := range s.blogs {
		if keep(&r.blog) {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	result := make([]*models.Blog, 0, len(recs))
	for _, r := range recs {
		result = append(result, s.blogCopy(r))
	}
	return result, nil
}

// ListBlogs возвращает все посты, новые первыми.
func (s *Storage) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	return s.listBlogs(ctx, "memory.ListBlogs", func(*models.Blog) bool { return true })
}

// ListBlogsByTag возвращает посты с тегом.
func (s *Storage) ListBlogsByTag(ctx context.Context, tag string) ([]*models.Blog, error) {
	return s.listBlogs(ctx, "memory.ListBlogsByTag", func(b *models.Blog) bool {
		return slices.Contains(b.Tags, tag)
	})
}

// ListBlogsByAuthor возвращает посты автора.
func (s *Storage) ListBlogsByAuthor(ctx context.Context, authorID string) ([]*models.Blog, error) {
	return s.listBlogs(ctx, "memory.ListBlogsByAuthor", func(b *models.Blog) bool {
		return b.AuthorID != "" && b.AuthorID == authorID
	})
}

// ListCategories возвращает различные категории в алфавитном порядке.
func (s *Storage) ListCategories(ctx context.Context) ([]string, error) {
	const op = "memory.ListCategories"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, r := range s.blogs {
		if _, ok := seen[r.blog.Category]; ok {
			continue
		}
		seen[r.blog.Category] = struct{}{}
		result = append(result, r.blog.Category)
	}
	sort.Strings(result)
	return result, nil
}

// UpdateBlog перезаписывает изменяемые поля поста.
func (s *Storage) UpdateBlog(ctx context.Context, blog *models.Blog) error {
	const op = "memory.UpdateBlog"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.blogs[blog.ID]
	if !ok {
		return notFound(op)
	}
	if blog.Slug != r.blog.Slug {
		if _, taken := s.bySlug[blog.Slug]; taken {
			return fmt.Errorf("%s: %w", op, storage.ErrSlugTaken)
		}
		delete(s.bySlug, r.blog.Slug)
		s.bySlug[blog.Slug] = blog.ID
	}
	r.blog.Title = blog.Title
	r.blog.Slug = blog.Slug
	r.blog.Excerpt = blog.Excerpt
	r.blog.Content = blog.Content
	r.blog.ImageURL = blog.ImageURL
	r.blog.Category = blog.Category
	r.blog.Tags = append([]string{}, blog.Tags...)
	r.blog.UpdatedAt = now()
	blog.UpdatedAt = r.blog.UpdatedAt
	return nil
}

// DeleteBlog удаляет пост, его комментарии и ссылки из избранного.
func (s *Storage) DeleteBlog(ctx context.Context, id string) error {
	const op = "memory.DeleteBlog"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.blogs[id]
	if !ok {
		return notFound(op)
	}
	delete(s.bySlug, r.blog.Slug)
	delete(s.blogs, id)
	s.comments = slices.DeleteFunc(s.comments, func(c models.Comment) bool { return c.BlogID == id })
	for uid, favs := range s.favorites {
		s.favorites[uid] = slices.DeleteFunc(favs, func(b string) bool { return b == id })
	}
	return nil
}

// IncrementViews увеличивает счётчик просмотров на единицу.
func (s *Storage) IncrementViews(ctx context.Context, id string) error {
	const op = "memory.IncrementViews"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.blogs[id]
	if !ok {
		return notFound(op)
	}
	r.blog.ViewCount++
	return nil
}
