// Package storagetest содержит общий набор проверок для драйверов хранилища.
// Один и тот же набор прогоняется против memory и PostgreSQL.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

// Store полный набор операций драйвера хранилища.
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
}

// Factory создаёт пустое хранилище для одного подтеста.
type Factory func(t *testing.T) Store

// Run прогоняет набор проверок.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("refresh token", func(t *testing.T) { testRefreshToken(t, newStore(t)) })
	t.Run("blogs", func(t *testing.T) { testBlogs(t, newStore(t)) })
	t.Run("delete blog cascades", func(t *testing.T) { testDeleteBlog(t, newStore(t)) })
	t.Run("favorites", func(t *testing.T) { testFavorites(t, newStore(t)) })
	t.Run("delete user", func(t *testing.T) { testDeleteUser(t, newStore(t)) })
	t.Run("orphan comments", func(t *testing.T) { testOrphans(t, newStore(t)) })
}

// MustUser создаёт пользователя с ролью.
func MustUser(t *testing.T, s Store, name, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, PasswordHash: "hash", Role: role, AvatarURL: models.DefaultAvatarURL(name)}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// MustBlog создаёт пост автора.
func MustBlog(t *testing.T, s Store, authorID, title, slug, category string, tags ...string) *models.Blog {
	t.Helper()
	b := &models.Blog{
		Title: title, Slug: slug, Excerpt: "excerpt", Content: "content",
		ImageURL: "https://example.com/cover.png", Category: category, Tags: tags, AuthorID: authorID,
	}
	require.NoError(t, s.CreateBlog(context.Background(), b))
	return b
}

// MustComment создаёт комментарий.
func MustComment(t *testing.T, s Store, authorID, blogID string, parentID *string, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: content, AuthorID: authorID, BlogID: blogID, ParentID: parentID}
	require.NoError(t, s.CreateComment(context.Background(), c))
	return c
}

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()
	u := MustUser(t, s, "Jane Doe", "user@example.com", models.RoleUser)
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Empty(t, got.Favorites)
	assert.Nil(t, got.RefreshTokenHash)

	byEmail, err := s.GetUserByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	dup := &models.User{Name: "Other", Email: "user@example.com", PasswordHash: "h", Role: models.RoleUser}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), storage.ErrEmailTaken)

	_, err = s.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.UpdateRole(ctx, u.ID, models.RoleAuthor))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthor, got.Role)

	MustUser(t, s, "Sam Wilson", "admin@example.com", models.RoleAdmin)
	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testRefreshToken(t *testing.T, s Store) {
	ctx := context.Background()
	u := MustUser(t, s, "Jane Doe", "user@example.com", models.RoleUser)

	digest := "digest-1"
	require.NoError(t, s.SetRefreshToken(ctx, u.ID, &digest))
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshTokenHash)
	assert.Equal(t, "digest-1", *got.RefreshTokenHash)

	require.NoError(t, s.SetRefreshToken(ctx, u.ID, nil))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshTokenHash)

	assert.ErrorIs(t, s.SetRefreshToken(ctx, "00000000-0000-0000-0000-000000000000", nil), storage.ErrNotFound)
}

func testBlogs(t *testing.T, s Store) {
	ctx := context.Background()
	author := MustUser(t, s, "Alex Smith", "author@example.com", models.RoleAuthor)

	first := MustBlog(t, s, author.ID, "First", "first-1", "Technology", "react", "web")
	second := MustBlog(t, s, author.ID, "Second", "second-2", "Design", "css")

	dup := &models.Blog{Title: "X", Slug: "first-1", Excerpt: "e", Content: "c", Category: "c", AuthorID: author.ID}
	assert.ErrorIs(t, s.CreateBlog(ctx, dup), storage.ErrSlugTaken)

	got, err := s.GetBlogBySlug(ctx, "first-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, []string{"react", "web"}, got.Tags)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Alex Smith", got.Author.Name)
	assert.Equal(t, author.ID, got.AuthorID)

	_, err = s.GetBlogBySlug(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := s.ListBlogs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	byTag, err := s.ListBlogsByTag(ctx, "css")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, second.ID, byTag[0].ID)

	byAuthor, err := s.ListBlogsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Technology"}, cats)

	got.Title = "First, revised"
	got.Slug = "first-revised-3"
	got.Tags = []string{"go"}
	require.NoError(t, s.UpdateBlog(ctx, got))
	_, err = s.GetBlogBySlug(ctx, "first-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	updated, err := s.GetBlog(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First, revised", updated.Title)
	assert.Equal(t, []string{"go"}, updated.Tags)

	require.NoError(t, s.IncrementViews(ctx, first.ID))
	require.NoError(t, s.IncrementViews(ctx, first.ID))
	updated, err = s.GetBlog(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.ViewCount)
	assert.ErrorIs(t, s.IncrementViews(ctx, "00000000-0000-0000-0000-000000000000"), storage.ErrNotFound)
}

func testDeleteBlog(t *testing.T, s Store) {
	ctx := context.Background()
	author := MustUser(t, s, "Alex Smith", "author@example.com", models.RoleAuthor)
	keep := MustBlog(t, s, author.ID, "Keep", "keep-1", "AI")
	drop := MustBlog(t, s, author.ID, "Drop", "drop-1", "AI")

	root := MustComment(t, s, author.ID, drop.ID, nil, "root")
	MustComment(t, s, author.ID, drop.ID, &root.ID, "reply")
	MustComment(t, s, author.ID, keep.ID, nil, "other post")

	require.NoError(t, s.DeleteBlog(ctx, drop.ID))

	_, err := s.GetBlog(ctx, drop.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	gone, err := s.ListComments(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)
	kept, err := s.ListComments(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, s.DeleteBlog(ctx, drop.ID), storage.ErrNotFound)
}

func testFavorites(t *testing.T, s Store) {
	ctx := context.Background()
	author := MustUser(t, s, "Alex Smith", "author@example.com", models.RoleAuthor)
	reader := MustUser(t, s, "Jane Doe", "user@example.com", models.RoleUser)
	blog := MustBlog(t, s, author.ID, "Post", "post-1", "AI")

	added, err := s.ToggleFavorite(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, added)
	got, err := s.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{blog.ID}, got.Favorites)

	added, err = s.ToggleFavorite(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, added)
	got, err = s.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Favorites)

	_, err = s.ToggleFavorite(ctx, reader.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.ToggleFavorite(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteBlog(ctx, blog.ID))
	got, err = s.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Favorites, "deleted blog leaves favorites")
}

func testDeleteUser(t *testing.T, s Store) {
	ctx := context.Background()
	author := MustUser(t, s, "Alex Smith", "author@example.com", models.RoleAuthor)
	blog := MustBlog(t, s, author.ID, "Post", "post-1", "AI")
	c := MustComment(t, s, author.ID, blog.ID, nil, "hello")

	require.NoError(t, s.DeleteUser(ctx, author.ID))

	_, err := s.GetUser(ctx, author.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	orphaned, err := s.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, orphaned.AuthorID)
	assert.Nil(t, orphaned.Author)

	comment, err := s.GetComment(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, comment.Author)
	assert.Equal(t, models.DeletedUserName, comment.Author.Name)

	_, err = s.GetUserByEmail(ctx, "author@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, author.ID), storage.ErrNotFound)
}

func testOrphans(t *testing.T, s Store) {
	ctx := context.Background()
	author := MustUser(t, s, "Alex Smith", "author@example.com", models.RoleAuthor)
	blog := MustBlog(t, s, author.ID, "Post", "post-1", "AI")
	MustComment(t, s, author.ID, blog.ID, nil, "kept")
	MustComment(t, s, author.ID, "00000000-0000-0000-0000-000000000001", nil, "orphan")

	n, err := s.DeleteOrphanComments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := s.ListComments(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "kept", left[0].Content)
	assert.Equal(t, "Alex Smith", left[0].Author.Name)
}
