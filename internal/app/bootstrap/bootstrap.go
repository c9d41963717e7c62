// Package bootstrap открывает зависимости, общие для API и фоновых воркеров:
// хранилище, кеш и брокер сообщений.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/blog-platform/internal/cache"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/migrations"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage/memory"
	"github.com/magabrotheeeer/blog-platform/internal/storage/repository"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// Store все операции хранилища, которые нужны сервисам.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	SetRefreshToken(ctx context.Context, userID string, digest *string) error
	UpdateRole(ctx context.Context, userID string, role models.Role) error
	DeleteUser(ctx context.Context, userID string) error
	ToggleFavorite(ctx context.Context, userID, blogID string) (bool, error)

	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlog(ctx context.Context, id string) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	ListBlogs(ctx context.Context) ([]*models.Blog, error)
	ListBlogsByTag(ctx context.Context, tag string) ([]*models.Blog, error)
	ListBlogsByAuthor(ctx context.Context, authorID string) ([]*models.Blog, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateBlog(ctx context.Context, blog *models.Blog) error
	DeleteBlog(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, blogID string) ([]models.Comment, error)
	DeleteOrphanComments(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// OpenStore открывает хранилище выбранного драйвера. Для PostgreSQL при migrate=true
// применяются миграции, иначе ожидается, что схему уже создал API.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger, migrate bool) (Store, error) {
	const op = "bootstrap.OpenStore"

	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if migrate {
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("migrations applied", slog.String("path", cfg.MigrationsPath))
		return db, nil
	}
	if err := waitForDB(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return db, nil
}

func waitForDB(ctx context.Context, db *repository.Storage, log *slog.Logger) error {
	var err error
	for range dbReadyAttempts {
		if err = db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		log.Info("database not ready, retrying", sl.Err(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

// OpenCache подключает Redis. При пустом адресе кеш отключён и возвращается nil.
func OpenCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (*cache.Cache, error) {
	if cfg.AddressRedis == "" {
		log.Info("redis address is empty, blog cache disabled")
		return nil, nil
	}
	c, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}
	return c, nil
}

// Broker соединение и канал RabbitMQ с объявленными очередями событий.
type Broker struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// OpenBroker подключается к RabbitMQ и объявляет обменник и очереди событий постов.
// При пустом URL возвращает nil.
func OpenBroker(cfg *config.Config, log *slog.Logger) (*Broker, error) {
	if cfg.RabbitMQ.URL == "" {
		log.Info("rabbitmq url is empty, views are counted inline")
		return nil, nil
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.BlogEventsExchange, rabbitmq.BlogEventQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	return &Broker{Conn: conn, Ch: ch}, nil
}

// Close закрывает канал и соединение, логируя ошибки.
func (b *Broker) Close(log *slog.Logger) {
	if b == nil {
		return
	}
	if err := b.Ch.Close(); err != nil {
		log.Error("failed to close channel", sl.Err(err))
	}
	if err := b.Conn.Close(); err != nil {
		log.Error("failed to close connection", sl.Err(err))
	}
}
