// Package blogplatform собирает HTTP API платформы: маршруты, middleware и сервер.
package blogplatform

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация спецификации Swagger.
	_ "github.com/magabrotheeeer/blog-platform/docs"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/cookie"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/bytag"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/categories"
	blogcreate "github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/create"
	bloglist "github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/list"
	blogread "github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/read"
	blogremove "github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/remove"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/update"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/upload"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/blog/view"
	commentcreate "github.com/magabrotheeeer/blog-platform/internal/http/handlers/comment/create"
	commentlist "github.com/magabrotheeeer/blog-platform/internal/http/handlers/comment/list"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/comment/tree"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/user/blogs"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/user/favorite"
	userlist "github.com/magabrotheeeer/blog-platform/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/blog-platform/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/blog-platform/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/blog-platform/internal/http/handlers/user/role"
	"github.com/magabrotheeeer/blog-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	authservice "github.com/magabrotheeeer/blog-platform/internal/services/auth"
	blogservice "github.com/magabrotheeeer/blog-platform/internal/services/blog"
	commentservice "github.com/magabrotheeeer/blog-platform/internal/services/comment"
	userservice "github.com/magabrotheeeer/blog-platform/internal/services/user"
	viewservice "github.com/magabrotheeeer/blog-platform/internal/services/views"
	"github.com/magabrotheeeer/blog-platform/internal/storage/uploads"
)

// Services сервисы, которые обслуживают маршруты API.
type Services struct {
	Auth     *authservice.AuthService
	Blogs    *blogservice.BlogService
	Comments *commentservice.CommentService
	Users    *userservice.UserService
	Views    *viewservice.ViewService
}

// Options параметры маршрутов, не относящиеся к бизнес-логике.
type Options struct {
	Cookie        cookie.Config
	UploadsDir    string
	MaxUploadSize int64
	CORSOrigins   []string
	RateLimit     config.RateLimit
	Registry      *prometheus.Registry
	Health        map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, opts Options) error {
	metrics, err := middlewarectx.NewMetrics(opts.Registry)
	if err != nil {
		return err
	}

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	authenticate := middlewarectx.Authenticate(logger, svc.Auth)
	proxies, err := middlewarectx.ParseProxies(opts.RateLimit.TrustedProxies)
	if err != nil {
		return err
	}
	limiter := middlewarectx.NewRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst, proxies...)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware(logger))
				r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
				r.Post("/login", login.New(logger, svc.Auth, opts.Cookie).ServeHTTP)
				r.Post("/refresh", refresh.New(logger, svc.Auth).ServeHTTP)
			})
			r.Post("/logout", logout.New(logger, svc.Auth, opts.Cookie).ServeHTTP)
			r.With(authenticate).Get("/me", me.New(logger).ServeHTTP)
		})

		// Открытые конечные точки
		r.Get("/blogs", bloglist.New(logger, svc.Blogs).ServeHTTP)
		r.Get("/blogs/categories", categories.New(logger, svc.Blogs).ServeHTTP)
		r.Get("/blogs/tags/{tag}", bytag.New(logger, svc.Blogs).ServeHTTP)
		r.Get("/blogs/{slug}", blogread.New(logger, svc.Blogs).ServeHTTP)
		r.Post("/blogs/{id}/view", view.New(logger, svc.Views).ServeHTTP)
		r.Get("/comments/blog/{blogId}", commentlist.New(logger, svc.Comments).ServeHTTP)
		r.Get("/comments/blog/{blogId}/tree", tree.New(logger, svc.Comments).ServeHTTP)
		r.Get("/users/{id}", userread.New(logger, svc.Users).ServeHTTP)
		r.Get("/users/{id}/blogs", blogs.New(logger, svc.Blogs).ServeHTTP)

		// Группа с аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/users/favorites", favorite.New(logger, svc.Users).ServeHTTP)
			r.Delete("/users/{id}", userremove.New(logger, svc.Users).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleUser, models.RoleAuthor, models.RoleAdmin))
				r.Post("/comments", commentcreate.New(logger, svc.Comments).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAuthor, models.RoleAdmin))
				r.Post("/blogs", blogcreate.New(logger, svc.Blogs).ServeHTTP)
				r.Post("/blogs/upload", upload.New(logger, svc.Blogs, opts.MaxUploadSize).ServeHTTP)
				r.Put("/blogs/{id}", update.New(logger, svc.Blogs).ServeHTTP)
				r.Delete("/blogs/{id}", blogremove.New(logger, svc.Blogs).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdmin))
				r.Get("/users", userlist.New(logger, svc.Users).ServeHTTP)
				r.Put("/users/{id}/role", role.New(logger, svc.Users).ServeHTTP)
			})
		})
	})

	r.Handle(uploads.URLPrefix+"*", http.StripPrefix(uploads.URLPrefix, http.FileServer(http.Dir(opts.UploadsDir))))
	r.Get("/health", health.New(logger, opts.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
	return nil
}
