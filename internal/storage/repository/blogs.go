package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/blog-platform/internal/models"
)

const blogColumns = `b.id, b.title, b.slug, b.excerpt, b.content, b.image_url, b.category, b.tags,
	b.author_id, u.name, u.avatar_url, u.bio, b.view_count, b.created_at, b.updated_at`

const blogFrom = ` FROM blogs b LEFT JOIN users u ON u.id = b.author_id`

func (s *Storage) scanBlog(row rowScanner) (*models.Blog, error) {
	b := &models.Blog{}
	var authorID, authorName, authorAvatar, authorBio sql.NullString
	if err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &b.ImageURL, &b.Category,
		s.types.SQLScanner(&b.Tags), &authorID, &authorName, &authorAvatar, &authorBio,
		&b.ViewCount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if authorID.Valid {
		b.AuthorID = authorID.String
		b.Author = &models.AuthorSummary{
			ID:        authorID.String,
			Name:      authorName.String,
			AvatarURL: authorAvatar.String,
			Bio:       authorBio.String,
		}
	}
	return b, nil
}

func (s *Storage) queryBlogs(ctx context.Context, op, where string, args ...any) ([]*models.Blog, error) {
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT `+blogColumns+blogFrom+where+` ORDER BY b.created_at DESC, b.id`, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Blog, 0)
	for rows.Next() {
		b, err := s.scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateBlog сохраняет пост и заполняет ID и метки времени.
func (s *Storage) CreateBlog(ctx context.Context, blog *models.Blog) error {
	const op = "storage.CreateBlog"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	query := `INSERT INTO blogs (title, slug, excerpt, content, image_url, category, tags, author_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		blog.Title, blog.Slug, blog.Excerpt, blog.Content, blog.ImageURL, blog.Category, blog.Tags,
		nullable(blog.AuthorID), now,
	).Scan(&blog.ID); err != nil {
		return mapError(op, err)
	}
	blog.CreatedAt, blog.UpdatedAt = now, now
	return nil
}

// GetBlog возвращает пост по ID.
func (s *Storage) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	const op = "storage.GetBlog"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	b, err := s.scanBlog(s.DB.QueryRowContext(ctx, `SELECT `+blogColumns+blogFrom+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return b, nil
}

// GetBlogBySlug возвращает пост по slug.
func (s *Storage) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	const op = "storage.GetBlogBySlug"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	b, err := s.scanBlog(s.DB.QueryRowContext(ctx, `SELECT `+blogColumns+blogFrom+` WHERE b.slug = $1`, slug))
	if err != nil {
		return nil, mapError(op, err)
	}
	return b, nil
}

// ListBlogs возвращает все посты, новые первыми.
func (s *Storage) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	return s.queryBlogs(ctx, "storage.ListBlogs", "")
}

// ListBlogsByTag возвращает посты с тегом.
func (s *Storage) ListBlogsByTag(ctx context.Context, tag string) ([]*models.Blog, error) {
	return s.queryBlogs(ctx, "storage.ListBlogsByTag", ` WHERE $1 = ANY(b.tags)`, tag)
}

// ListBlogsByAuthor возвращает посты автора.
func (s *Storage) ListBlogsByAuthor(ctx context.Context, authorID string) ([]*models.Blog, error) {
	return s.queryBlogs(ctx, "storage.ListBlogsByAuthor", ` WHERE b.author_id = $1`, authorID)
}

// ListCategories возвращает различные категории в алфавитном порядке.
func (s *Storage) ListCategories(ctx context.Context) ([]string, error) {
	const op = "storage.ListCategories"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT category FROM blogs ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBlog перезаписывает изменяемые поля поста.
func (s *Storage) UpdateBlog(ctx context.Context, blog *models.Blog) error {
	const op = "storage.UpdateBlog"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	res, err := s.DB.ExecContext(ctx,
		`UPDATE blogs SET title = $1, slug = $2, excerpt = $3, content = $4, image_url = $5,
		     category = $6, tags = $7, updated_at = $8
		 WHERE id = $9`,
		blog.Title, blog.Slug, blog.Excerpt, blog.Content, blog.ImageURL, blog.Category, blog.Tags, now, blog.ID)
	if err != nil {
		return mapError(op, err)
	}
	if err := expectAffected(op, res); err != nil {
		return err
	}
	blog.UpdatedAt = now
	return nil
}

// DeleteBlog удаляет пост и его комментарии в одной транзакции.
func (s *Storage) DeleteBlog(ctx context.Context, id string) error {
	const op = "storage.DeleteBlog"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE blog_id = $1`, id); err != nil {
			return mapError(op, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
		if err != nil {
			return mapError(op, err)
		}
		return expectAffected(op, res)
	})
}

// IncrementViews увеличивает счётчик просмотров на единицу.
func (s *Storage) IncrementViews(ctx context.Context, id string) error {
	const op = "storage.IncrementViews"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE blogs SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return mapError(op, err)
	}
	return expectAffected(op, res)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
