// Package services содержит операции над комментариями: плоский список, дерево ответов и создание.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/blog-platform/internal/lib/commenttree"
	"github.com/magabrotheeeer/blog-platform/internal/lib/errs"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

// Ошибки операций с комментариями.
var (
	ErrBlogNotFound    = errs.New(errs.NotFound, "Blog not found")
	ErrParentNotFound  = errs.New(errs.Validation, "Parent comment not found")
	ErrParentOtherBlog = errs.New(errs.Validation, "Parent comment belongs to another blog")
	ErrCannotComment   = errs.New(errs.Forbidden, "Guests cannot comment")
	ErrEmptyContent    = errs.New(errs.Validation, "Comment content is required")
)

// CommentRepository определяет методы хранилища комментариев.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, blogID string) ([]models.Comment, error)
}

// BlogLookup проверяет существование поста.
type BlogLookup interface {
	GetBlog(ctx context.Context, id string) (*models.Blog, error)
}

// CommentService реализует операции над комментариями.
type CommentService struct {
	repo  CommentRepository
	blogs BlogLookup
}

// NewCommentService создает новый экземпляр CommentService.
func NewCommentService(repo CommentRepository, blogs BlogLookup) *CommentService {
	return &CommentService{repo: repo, blogs: blogs}
}

func (s *CommentService) ensureBlog(ctx context.Context, op, blogID string) error {
	if _, err := s.blogs.GetBlog(ctx, blogID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrBlogNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List возвращает комментарии поста по возрастанию времени создания.
func (s *CommentService) List(ctx context.Context, blogID string) ([]models.Comment, error) {
	const op = "services.comment.List"
	if err := s.ensureBlog(ctx, op, blogID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

// Tree возвращает комментарии поста в виде леса ответов.
func (s *CommentService) Tree(ctx context.Context, blogID string) ([]*models.CommentNode, error) {
	comments, err := s.List(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return commenttree.Build(comments), nil
}

// Create добавляет комментарий или ответ. Родитель должен принадлежать тому же посту.
func (s *CommentService) Create(ctx context.Context, actor *models.User, in models.CommentInput) (*models.Comment, error) {
	const op = "services.comment.Create"
	if actor == nil || !actor.Role.AtLeast(models.RoleUser) {
		return nil, ErrCannotComment
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.ensureBlog(ctx, op, in.BlogID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, AuthorID: actor.ID, BlogID: in.BlogID}
	if in.ParentCommentID != "" {
		parent, err := s.repo.GetComment(ctx, in.ParentCommentID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if parent.BlogID != in.BlogID {
			return nil, ErrParentOtherBlog
		}
		comment.ParentID = &parent.ID
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	comment.Author = &models.AuthorSummary{ID: actor.ID, Name: actor.Name, AvatarURL: actor.AvatarURL}
	return comment, nil
}
