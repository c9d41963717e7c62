// Package services содержит фоновую очистку комментариев, чьи посты уже удалены.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
)

// OrphanCleaner удаляет осиротевшие комментарии.
type OrphanCleaner interface {
	DeleteOrphanComments(ctx context.Context) (int64, error)
}

// ReconcilerService периодически удаляет комментарии удалённых постов.
type ReconcilerService struct {
	repo     OrphanCleaner
	interval time.Duration
	log      *slog.Logger
}

// NewReconcilerService создает новый экземпляр ReconcilerService.
func NewReconcilerService(log *slog.Logger, repo OrphanCleaner, interval time.Duration) *ReconcilerService {
	return &ReconcilerService{repo: repo, interval: interval, log: log}
}

// Run выполняет очистку сразу и затем каждые interval, пока не отменён ctx.
func (s *ReconcilerService) Run(ctx context.Context) {
	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход и возвращает число удалённых комментариев.
func (s *ReconcilerService) RunOnce(ctx context.Context) (int64, error) {
	const op = "services.reconciler.RunOnce"
	log := s.log.With(sl.Op(op))

	n, err := s.repo.DeleteOrphanComments(ctx)
	if err != nil {
		log.Error("failed to delete orphan comments", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		log.Debug("no orphan comments found")
		return 0, nil
	}
	log.Info("deleted orphan comments", slog.Int64("count", n))
	return n, nil
}
