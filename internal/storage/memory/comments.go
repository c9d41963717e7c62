package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// CreateComment сохраняет комментарий и заполняет ID и время создания.
func (s *Storage) CreateComment(ctx context.Context, comment *models.Comment) error {
	const op = "memory.CreateComment"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.AuthorID != "" {
		if _, ok := s.users[comment.AuthorID]; !ok {
			return notFound(op)
		}
	}
	comment.ID = uuid.NewString()
	comment.CreatedAt = now()
	stored := *comment
	stored.Author = nil
	s.comments = append(s.comments, stored)
	*comment = s.commentCopy(stored)
	return nil
}

// GetComment возвращает комментарий по ID.
func (s *Storage) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	const op = "memory.GetComment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.comments, func(c models.Comment) bool { return c.ID == id })
	if i < 0 {
		return nil, notFound(op)
	}
	c := s.commentCopy(s.comments[i])
	return &c, nil
}

// ListComments возвращает комментарии поста в порядке создания.
func (s *Storage) ListComments(ctx context.Context, blogID string) ([]models.Comment, error) {
	const op = "memory.ListComments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.BlogID == blogID {
			result = append(result, s.commentCopy(c))
		}
	}
	return result, nil
}

// DeleteOrphanComments удаляет комментарии постов, которых больше нет.
func (s *Storage) DeleteOrphanComments(ctx context.Context) (int64, error) {
	const op = "memory.DeleteOrphanComments"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.comments)
	s.comments = slices.DeleteFunc(s.comments, func(c models.Comment) bool {
		_, ok := s.blogs[c.BlogID]
		return !ok
	})
	return int64(before - len(s.comments)), nil
}
