// Package services содержит операции над пользователями: профиль, список, удаление,
// избранное и смену роли.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/blog-platform/internal/lib/errs"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	blogservice "github.com/magabrotheeeer/blog-platform/internal/services/blog"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

// Ошибки операций с пользователями.
var (
	ErrUserNotFound  = errs.New(errs.NotFound, "User not found")
	ErrBlogNotFound  = errs.New(errs.NotFound, "Blog not found")
	ErrInvalidBlogID = errs.New(errs.Validation, "Invalid blog ID")
	ErrInvalidRole   = errs.New(errs.Validation, "Invalid role")
	ErrOwnRole       = errs.New(errs.Validation, "Admins cannot change their own role")
	ErrNotAuthorized = errs.New(errs.Forbidden, "Not authorized to modify this user")
	ErrAdminOnly     = errs.New(errs.Forbidden, "Admin access required")
)

// UserRepository определяет методы хранилища пользователей.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, userID, blogID string) (bool, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) error
}

// BlogLookup проверяет существование поста и находит посты автора.
type BlogLookup interface {
	GetBlog(ctx context.Context, id string) (*models.Blog, error)
	ListBlogsByAuthor(ctx context.Context, authorID string) ([]*models.Blog, error)
}

// Invalidator сбрасывает ключи кеша постов.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// UserService реализует операции над пользователями.
type UserService struct {
	repo  UserRepository
	blogs BlogLookup
	cache Invalidator
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService. cache может быть nil.
func NewUserService(log *slog.Logger, repo UserRepository, blogs BlogLookup, cache Invalidator) *UserService {
	return &UserService{repo: repo, blogs: blogs, cache: cache, log: log}
}

func userErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Profile возвращает профиль пользователя без секретов.
func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	const op = "services.user.Profile"
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, userErr(op, err)
	}
	return u.Sanitized(), nil
}

// List возвращает всех пользователей. Доступно только администратору.
func (s *UserService) List(ctx context.Context, actor *models.User) ([]*models.User, error) {
	const op = "services.user.List"
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i, u := range users {
		users[i] = u.Sanitized()
	}
	return users, nil
}

// Delete удаляет пользователя. Удалить можно себя, администратор может удалить любого.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id string) error {
	const op = "services.user.Delete"
	if !models.CanModify(actor, id) {
		return ErrNotAuthorized
	}

	// Посты остаются без автора, поэтому их закешированные копии сбрасываются.
	var keys []string
	if s.cache != nil {
		posts, err := s.blogs.ListBlogsByAuthor(ctx, id)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		for _, p := range posts {
			keys = append(keys, blogservice.SlugCacheKey(p.Slug))
		}
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return userErr(op, err)
	}
	if len(keys) > 0 {
		if err := s.cache.Invalidate(ctx, keys...); err != nil {
			s.log.Warn("cache invalidation failed", sl.Op(op), slog.String("user_id", id), sl.Err(err))
		}
	}
	return nil
}

// ToggleFavorite переключает пост в избранном и возвращает обновлённого пользователя.
func (s *UserService) ToggleFavorite(ctx context.Context, actor *models.User, blogID string) (*models.User, error) {
	const op = "services.user.ToggleFavorite"
	if actor == nil {
		return nil, ErrNotAuthorized
	}
	if _, err := uuid.Parse(blogID); err != nil {
		return nil, ErrInvalidBlogID
	}
	if _, err := s.blogs.GetBlog(ctx, blogID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.ToggleFavorite(ctx, actor.ID, blogID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Profile(ctx, actor.ID)
}

// ChangeRole назначает пользователю роль. Доступно только администратору и не для себя.
func (s *UserService) ChangeRole(ctx context.Context, actor *models.User, id string, role models.Role) (*models.User, error) {
	const op = "services.user.ChangeRole"
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if actor.ID == id {
		return nil, ErrOwnRole
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, userErr(op, err)
	}
	return s.Profile(ctx, id)
}
