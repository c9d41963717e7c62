// Package seed наполняет пустое хранилище демонстрационными пользователями и постами.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/blog-platform/internal/app/blogplatform"
	"github.com/magabrotheeeer/blog-platform/internal/app/bootstrap"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage/uploads"
)

// Store операции хранилища, нужные для наполнения помимо сервисов.
type Store interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) error
}

// Seed создаёт демо-данные. Если пользователи уже есть, ничего не делает и возвращает false.
func Seed(ctx context.Context, log *slog.Logger, store Store, svc blogplatform.Services) (bool, error) {
	const op = "seed.Seed"
	log = log.With(sl.Op(op))

	existing, err := store.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		log.Info("storage already has users, skipping", slog.Int("users", len(existing)))
		return false, nil
	}

	users := make(map[string]*models.User, len(demoUsers))
	for _, du := range demoUsers {
		req := du.RegisterRequest
		req.Password = demoPassword
		u, err := svc.Auth.Register(ctx, req)
		if err != nil {
			return false, fmt.Errorf("%s: register %s: %w", op, du.Email, err)
		}
		if du.Role != u.Role {
			if err := store.UpdateRole(ctx, u.ID, du.Role); err != nil {
				return false, fmt.Errorf("%s: role %s: %w", op, du.Email, err)
			}
			if u, err = store.GetUser(ctx, u.ID); err != nil {
				return false, fmt.Errorf("%s: %w", op, err)
			}
		}
		users[du.Email] = u
	}
	log.Info("users seeded", slog.Int("count", len(users)))

	blogs := make([]*models.Blog, 0, len(demoBlogs))
	for _, db := range demoBlogs {
		b, err := svc.Blogs.Create(ctx, users[db.AuthorEmail], db.BlogInput)
		if err != nil {
			return false, fmt.Errorf("%s: blog %q: %w", op, db.Title, err)
		}
		blogs = append(blogs, b)
	}
	log.Info("blogs seeded", slog.Int("count", len(blogs)))

	if _, err := svc.Users.ToggleFavorite(ctx, users[favoriteOwner], blogs[0].ID); err != nil {
		return false, fmt.Errorf("%s: favorite: %w", op, err)
	}
	log.Info("sample favorite added")
	return true, nil
}

// Run открывает хранилище (с миграциями) и наполняет его.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := bootstrap.OpenStore(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", sl.Err(err))
		}
	}()

	images, err := uploads.New(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("uploads dir: %w", err)
	}
	svc := blogplatform.NewServices(cfg, log, store, nil, nil, images)
	_, err = Seed(ctx, log, store, svc)
	return err
}
