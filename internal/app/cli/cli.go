// Package cli реализует консольный клиент платформы поверх internal/client.
//
// Сессия хранится в файле между запусками. Refresh-cookie живёт только в памяти
// процесса, поэтому после истечения access-токена нужно снова выполнить login.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/magabrotheeeer/blog-platform/internal/client"
	"github.com/magabrotheeeer/blog-platform/internal/lib/commenttree"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
)

const defaultAPI = "http://localhost:8080/api"

// ErrUsage возвращается при неизвестной команде или неверных аргументах.
var ErrUsage = errors.New("usage: blog-cli [-api URL] [-session FILE] login|logout|whoami|posts|post|comments|favorite")

// ErrLoginRequired возвращается командами, которым нужен вошедший пользователь.
var ErrLoginRequired = errors.New("login required")

type runner struct {
	out     io.Writer
	log     *slog.Logger
	client  *client.Client
	session *client.Session
}

// Run разбирает глобальные флаги, собирает клиент и сессию и выполняет команду.
func Run(ctx context.Context, args []string, out io.Writer, log *slog.Logger) error {
	fs := flag.NewFlagSet("blog-cli", flag.ContinueOnError)
	fs.SetOutput(out)
	api := fs.String("api", envOr("BLOG_API_URL", defaultAPI), "API base URL")
	sessionPath := fs.String("session", envOr("BLOG_SESSION_FILE", defaultSessionPath()), "session file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return ErrUsage
	}

	store := client.NewFileStore(*sessionPath)
	c, err := client.New(*api, store,
		client.WithLogger(log),
		client.OnSessionExpired(func() {
			fmt.Fprintln(out, "session expired, run login again")
		}),
	)
	if err != nil {
		return err
	}
	r := &runner{out: out, log: log, client: c, session: client.NewSession(c, store, log)}
	return r.exec(ctx, fs.Arg(0), fs.Args()[1:])
}

func (r *runner) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return r.login(ctx, args)
	case "logout":
		r.session.Logout(ctx)
		fmt.Fprintln(r.out, "logged out")
		return nil
	case "whoami":
		return r.whoami(ctx)
	case "posts":
		return r.posts(ctx)
	case "post":
		return r.post(ctx, args)
	case "comments":
		return r.comments(ctx, args)
	case "favorite":
		return r.favorite(ctx, args)
	default:
		return ErrUsage
	}
}

func (r *runner) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(r.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("BLOG_PASSWORD"), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return ErrUsage
	}
	user, err := r.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func (r *runner) whoami(ctx context.Context) error {
	r.session.Hydrate(ctx)
	user := r.session.User()
	if user == nil {
		fmt.Fprintln(r.out, "guest")
		return nil
	}
	fmt.Fprintf(r.out, "%s <%s> %s, favorites: %d\n", user.Name, user.Email, user.Role, len(user.Favorites))
	return nil
}

func (r *runner) posts(ctx context.Context) error {
	blogs, err := r.client.ListBlogs(ctx)
	if err != nil {
		return err
	}
	for _, b := range blogs {
		fmt.Fprintf(r.out, "%s\t%s\t%d views\n", b.Slug, b.Title, b.ViewCount)
	}
	return nil
}

// post печатает пост и отправляет событие просмотра.
func (r *runner) post(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	b, err := r.client.BlogBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	if err := r.client.RecordView(ctx, b.ID); err != nil {
		r.log.Warn("failed to record view", slog.String("blog_id", b.ID), sl.Err(err))
	}
	author := "unknown"
	if b.Author != nil {
		author = b.Author.Name
	}
	fmt.Fprintf(r.out, "%s\nby %s in %s [%s]\n\n%s\n", b.Title, author, b.Category, strings.Join(b.Tags, ", "), b.Excerpt)
	return nil
}

func (r *runner) comments(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	b, err := r.client.BlogBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	forest, err := r.client.CommentTree(ctx, b.ID)
	if err != nil {
		return err
	}
	printTree(r.out, forest, 0)
	fmt.Fprintf(r.out, "%d comments\n", commenttree.Count(forest))
	return nil
}

func (r *runner) favorite(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	r.session.Hydrate(ctx)
	if !r.session.IsAuthenticated() {
		return ErrLoginRequired
	}
	b, err := r.client.BlogBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	if err := r.session.ToggleFavorite(ctx, b.ID); err != nil {
		return err
	}
	state := "removed from"
	for _, id := range r.session.User().Favorites {
		if id == b.ID {
			state = "added to"
			break
		}
	}
	fmt.Fprintf(r.out, "%s %s favorites\n", b.Slug, state)
	return nil
}

func printTree(out io.Writer, nodes []*models.CommentNode, depth int) {
	for _, n := range nodes {
		author := "unknown"
		if n.Author != nil {
			author = n.Author.Name
		}
		fmt.Fprintf(out, "%s%s: %s\n", strings.Repeat("  ", depth), author, n.Content)
		printTree(out, n.Replies, depth+1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "blog-cli-session.json"
	}
	return filepath.Join(dir, "blog-platform", "session.json")
}
