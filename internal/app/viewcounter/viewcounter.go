// Package viewcounter запускает воркер, который применяет события просмотров из очереди к хранилищу.
package viewcounter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/blog-platform/internal/app/bootstrap"
	"github.com/magabrotheeeer/blog-platform/internal/cache"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	viewservice "github.com/magabrotheeeer/blog-platform/internal/services/views"
)

type App struct {
	store  bootstrap.Store
	cache  *cache.Cache
	broker *bootstrap.Broker
	logger *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQ.URL == "" {
		return nil, errors.New("view counter requires RABBITMQ_URL")
	}
	store, err := bootstrap.OpenStore(ctx, cfg, logger, false)
	if err != nil {
		return nil, err
	}
	redisCache, err := bootstrap.OpenCache(ctx, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	broker, err := bootstrap.OpenBroker(cfg, logger)
	if err != nil {
		if redisCache != nil {
			_ = redisCache.Close()
		}
		_ = store.Close()
		return nil, err
	}
	return &App{store: store, cache: redisCache, broker: broker, logger: logger}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer a.close()

	// Кеш поста по slug сбрасывается после каждого применённого просмотра.
	var invalidator viewservice.Invalidator
	if a.cache != nil {
		invalidator = a.cache
	}

	done, err := rabbitmq.ConsumerMessage(ctx, a.logger, a.broker.Ch, rabbitmq.ViewQueue,
		viewservice.NewConsumerHandler(a.logger, a.store, invalidator))
	if err != nil {
		a.logger.Error("failed to start view consumer", slog.String("queue", rabbitmq.ViewQueue), sl.Err(err))
		return err
	}

	select {
	case <-ctx.Done():
		a.logger.Info("view counter shutting down gracefully")
	case <-done:
		a.logger.Warn("view deliveries channel closed")
	}
	// Канал закрывается после завершения уже начатых обработчиков.
	<-done
	return nil
}

func (a *App) close() {
	a.broker.Close(a.logger)
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
