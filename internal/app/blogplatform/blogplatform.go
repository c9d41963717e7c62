package blogplatform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/blog-platform/internal/app/bootstrap"
	"github.com/magabrotheeeer/blog-platform/internal/cache"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/cookie"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/blog-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/blog-platform/internal/lib/password"
	"github.com/magabrotheeeer/blog-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/lib/slug"
	authservice "github.com/magabrotheeeer/blog-platform/internal/services/auth"
	blogservice "github.com/magabrotheeeer/blog-platform/internal/services/blog"
	commentservice "github.com/magabrotheeeer/blog-platform/internal/services/comment"
	userservice "github.com/magabrotheeeer/blog-platform/internal/services/user"
	viewservice "github.com/magabrotheeeer/blog-platform/internal/services/views"
	"github.com/magabrotheeeer/blog-platform/internal/storage/uploads"
)

const shutdownTimeout = 15 * time.Second

// App HTTP API платформы.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  bootstrap.Store
	cache  *cache.Cache
	broker *bootstrap.Broker
}

// NewServices собирает сервисы поверх хранилища. cache и publisher могут быть nil:
// тогда кеш постов отключён, а просмотры считаются синхронно.
func NewServices(cfg *config.Config, logger *slog.Logger, store bootstrap.Store, redisCache *cache.Cache, publisher viewservice.Publisher, images *uploads.Store) Services {
	access := jwt.NewJWTMaker(cfg.AccessSecret, cfg.AccessTTL)
	refreshMaker := jwt.NewJWTMaker(cfg.RefreshSecret, cfg.RefreshTTL)

	var blogCache blogservice.Cache
	if redisCache != nil {
		blogCache = redisCache
	}

	var recorder viewservice.Recorder = viewservice.NewDirectRecorder(logger, store, blogCache)
	if publisher != nil {
		recorder = viewservice.NewQueueRecorder(publisher)
	}

	return Services{
		Auth:     authservice.NewAuthService(logger, store, access, refreshMaker, password.NewHasher(cfg.BcryptCost)),
		Blogs:    blogservice.NewBlogService(logger, store, blogCache, images, slug.New(), cfg.CacheTTL),
		Comments: commentservice.NewCommentService(store, store),
		Users:    userservice.NewUserService(logger, store, store, blogCache),
		Views:    viewservice.NewViewService(store, recorder),
	}
}

// New создаёт приложение: открывает хранилище, кеш и брокер, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := bootstrap.OpenStore(ctx, cfg, logger, true)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, store: store}

	app.cache, err = bootstrap.OpenCache(ctx, cfg, logger)
	if err != nil {
		app.close()
		return nil, err
	}
	app.broker, err = bootstrap.OpenBroker(cfg, logger)
	if err != nil {
		app.close()
		return nil, err
	}

	images, err := uploads.New(cfg.Uploads.Dir)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("uploads dir: %w", err)
	}

	var publisher viewservice.Publisher
	checks := map[string]health.Pinger{"storage": store}
	if app.broker != nil {
		publisher = rabbitmq.NewPublisher(app.broker.Ch, rabbitmq.BlogEventsExchange)
	}
	if app.cache != nil {
		checks["redis"] = app.cache
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	services := NewServices(cfg, logger, store, app.cache, publisher, images)
	router := chi.NewRouter()
	err = RegisterRoutes(router, logger, services, Options{
		Cookie:        cookie.Config{Secure: cfg.IsSecureCookie(), TTL: services.Auth.RefreshTTL()},
		UploadsDir:    images.Dir(),
		MaxUploadSize: cfg.MaxFileSize,
		CORSOrigins:   cfg.CORSOrigins,
		RateLimit:     cfg.RateLimit,
		Registry:      registry,
		Health:        checks,
	})
	if err != nil {
		app.close()
		return nil, err
	}

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	a.broker.Close(a.logger)
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
