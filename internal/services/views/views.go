// Package services содержит запись просмотров поста: синхронный счётчик,
// публикацию событий в очередь и обработчик очереди для воркера.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/blog-platform/internal/lib/errs"
	"github.com/magabrotheeeer/blog-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	blogservice "github.com/magabrotheeeer/blog-platform/internal/services/blog"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

// ErrBlogNotFound пост не найден.
var ErrBlogNotFound = errs.New(errs.NotFound, "Blog not found")

// BlogLookup проверяет существование поста.
type BlogLookup interface {
	GetBlog(ctx context.Context, id string) (*models.Blog, error)
}

// Counter увеличивает счётчик просмотров.
type Counter interface {
	IncrementViews(ctx context.Context, id string) error
}

// Publisher публикует сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Invalidator сбрасывает ключи кеша постов.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Recorder фиксирует один просмотр существующего поста.
type Recorder interface {
	Record(ctx context.Context, event models.ViewEvent) error
}

// DirectRecorder увеличивает счётчик сразу, без очереди.
type DirectRecorder struct {
	counter Counter
	cache   Invalidator
	log     *slog.Logger
}

// NewDirectRecorder создаёт DirectRecorder. cache может быть nil.
func NewDirectRecorder(log *slog.Logger, counter Counter, cache Invalidator) *DirectRecorder {
	return &DirectRecorder{counter: counter, cache: cache, log: log}
}

// Record увеличивает счётчик и сбрасывает закешированную копию поста.
func (r *DirectRecorder) Record(ctx context.Context, event models.ViewEvent) error {
	if err := r.counter.IncrementViews(ctx, event.BlogID); err != nil {
		return err
	}
	forget(ctx, r.log, r.cache, event.Slug)
	return nil
}

// forget сбрасывает кеш поста после изменения счётчика. Ошибка кеша только логируется:
// копия всё равно истечёт по TTL.
func forget(ctx context.Context, log *slog.Logger, cache Invalidator, slug string) {
	if cache == nil || slug == "" {
		return
	}
	if err := cache.Invalidate(ctx, blogservice.SlugCacheKey(slug)); err != nil {
		log.Warn("cache invalidation failed", slog.String("slug", slug), sl.Err(err))
	}
}

// QueueRecorder публикует событие просмотра для воркера view-counter.
type QueueRecorder struct {
	pub Publisher
	now func() time.Time
}

// NewQueueRecorder создаёт QueueRecorder.
func NewQueueRecorder(pub Publisher) *QueueRecorder {
	return &QueueRecorder{pub: pub, now: time.Now}
}

// Record публикует событие. Кеш сбрасывает воркер после увеличения счётчика.
func (r *QueueRecorder) Record(_ context.Context, event models.ViewEvent) error {
	event.OccurredAt = r.now().UTC()
	return r.pub.Publish(rabbitmq.ViewRoutingKey, event)
}

// ViewService проверяет пост и передаёт просмотр регистратору.
type ViewService struct {
	blogs    BlogLookup
	recorder Recorder
}

// NewViewService создает новый экземпляр ViewService.
func NewViewService(blogs BlogLookup, recorder Recorder) *ViewService {
	return &ViewService{blogs: blogs, recorder: recorder}
}

// Record фиксирует просмотр поста.
func (s *ViewService) Record(ctx context.Context, blogID string) error {
	const op = "services.views.Record"
	blog, err := s.blogs.GetBlog(ctx, blogID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrBlogNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.recorder.Record(ctx, models.ViewEvent{BlogID: blog.ID, Slug: blog.Slug}); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrBlogNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NewConsumerHandler возвращает обработчик очереди blog.views. Битые сообщения и просмотры
// удалённых постов подтверждаются и отбрасываются, прочие ошибки возвращают сообщение в очередь.
// После увеличения счётчика кеш поста сбрасывается; cache может быть nil.
func NewConsumerHandler(log *slog.Logger, counter Counter, cache Invalidator) rabbitmq.Handler {
	const op = "services.views.Consume"
	log = log.With(sl.Op(op))
	return func(ctx context.Context, body []byte) error {
		var event models.ViewEvent
		if err := json.Unmarshal(body, &event); err != nil || event.BlogID == "" {
			log.Warn("dropping malformed view event", slog.String("body", string(body)))
			return nil
		}
		err := counter.IncrementViews(ctx, event.BlogID)
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("view for deleted blog dropped", slog.String("blog_id", event.BlogID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		forget(ctx, log, cache, event.Slug)
		return nil
	}
}
