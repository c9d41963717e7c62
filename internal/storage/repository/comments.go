package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/blog-platform/internal/models"
)

const commentColumns = `c.id, c.content, c.author_id, u.name, u.avatar_url, c.blog_id, c.parent_id, c.created_at`

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	var authorID, authorName, authorAvatar, parentID sql.NullString
	if err := row.Scan(&c.ID, &c.Content, &authorID, &authorName, &authorAvatar,
		&c.BlogID, &parentID, &c.CreatedAt); err != nil {
		return nil, err
	}
	if authorID.Valid {
		c.AuthorID = authorID.String
		c.Author = &models.AuthorSummary{ID: authorID.String, Name: authorName.String, AvatarURL: authorAvatar.String}
	} else {
		c.Author = models.DeletedAuthor()
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return c, nil
}

// CreateComment сохраняет комментарий и заполняет ID и время создания.
func (s *Storage) CreateComment(ctx context.Context, comment *models.Comment) error {
	const op = "storage.CreateComment"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	var parent sql.NullString
	if comment.ParentID != nil {
		parent = sql.NullString{String: *comment.ParentID, Valid: true}
	}
	if err := s.DB.QueryRowContext(ctx,
		`INSERT INTO comments (content, author_id, blog_id, parent_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		comment.Content, nullable(comment.AuthorID), comment.BlogID, parent, now,
	).Scan(&comment.ID); err != nil {
		return mapError(op, err)
	}
	comment.CreatedAt = now
	return nil
}

// GetComment возвращает комментарий по ID.
func (s *Storage) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage.GetComment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	c, err := scanComment(s.DB.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c LEFT JOIN users u ON u.id = c.author_id WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return c, nil
}

// ListComments возвращает комментарии поста по возрастанию времени создания.
func (s *Storage) ListComments(ctx context.Context, blogID string) ([]models.Comment, error) {
	const op = "storage.ListComments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments c LEFT JOIN users u ON u.id = c.author_id
		 WHERE c.blog_id = $1
		 ORDER BY c.created_at, c.id`, blogID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteOrphanComments удаляет комментарии постов, которых больше нет.
func (s *Storage) DeleteOrphanComments(ctx context.Context) (int64, error) {
	const op = "storage.DeleteOrphanComments"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM comments c WHERE NOT EXISTS (SELECT 1 FROM blogs b WHERE b.id = c.blog_id)`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
