package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/blog-platform/internal/models"
)

// Register регистрирует пользователя. Вход не выполняется.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login входит по email и паролю. Refresh-cookie сохраняется в cookie jar клиента.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me возвращает текущего пользователя по сохранённому токену.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleFavorite переключает пост в избранном и возвращает обновлённого пользователя.
func (c *Client) ToggleFavorite(ctx context.Context, blogID string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/users/favorites", models.FavoriteRequest{BlogID: blogID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	var out []*models.Blog
	if err := c.do(ctx, http.MethodGet, "/blogs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var out models.Blog
	if err := c.do(ctx, http.MethodGet, "/blogs/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordView отправляет событие просмотра поста.
func (c *Client) RecordView(ctx context.Context, blogID string) error {
	return c.do(ctx, http.MethodPost, "/blogs/"+url.PathEscape(blogID)+"/view", nil, nil)
}

func (c *Client) AddComment(ctx context.Context, in models.CommentInput) (*models.Comment, error) {
	var out models.Comment
	if err := c.do(ctx, http.MethodPost, "/comments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CommentTree возвращает комментарии поста в виде дерева ответов.
func (c *Client) CommentTree(ctx context.Context, blogID string) ([]*models.CommentNode, error) {
	var out []*models.CommentNode
	if err := c.do(ctx, http.MethodGet, "/comments/blog/"+url.PathEscape(blogID)+"/tree", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
