// Package reconciler запускает воркер периодической очистки комментариев удалённых постов.
package reconciler

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/blog-platform/internal/app/bootstrap"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	reconcilerservice "github.com/magabrotheeeer/blog-platform/internal/services/reconciler"
)

type App struct {
	store   bootstrap.Store
	service *reconcilerservice.ReconcilerService
	logger  *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := bootstrap.OpenStore(ctx, cfg, logger, false)
	if err != nil {
		return nil, err
	}
	return &App{
		store:   store,
		service: reconcilerservice.NewReconcilerService(logger, store, cfg.Reconciler.Interval),
		logger:  logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.service.Run(ctx)
	a.logger.Info("reconciler shutting down gracefully")
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
