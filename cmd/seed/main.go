package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/blog-platform/internal/app/seed"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/lib/logger"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	log.Info("seeding storage", slog.String("driver", cfg.StorageDriver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seed.Run(ctx, cfg, log); err != nil {
		log.Error("failed to seed storage", sl.Err(err))
		os.Exit(1)
	}
	log.Info("storage seeded")
}
