package services_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blog-platform/internal/cache"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/lib/errs"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/lib/slug"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	services "github.com/magabrotheeeer/blog-platform/internal/services/blog"
	viewservice "github.com/magabrotheeeer/blog-platform/internal/services/views"
	"github.com/magabrotheeeer/blog-platform/internal/storage/memory"
	"github.com/magabrotheeeer/blog-platform/internal/storage/storagetest"
	"github.com/magabrotheeeer/blog-platform/internal/storage/uploads"
)

type fixture struct {
	svc     *services.BlogService
	store   *memory.Storage
	cache   *cache.Cache
	images  *uploads.Store
	author  *models.User
	other   *models.User
	admin   *models.User
	reader  *models.User
	uploads string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	dir := t.TempDir()
	images, err := uploads.New(dir)
	require.NoError(t, err)

	store := memory.New()
	f := fixture{
		svc:     services.NewBlogService(sl.Discard(), store, c, images, slug.New(), time.Minute),
		store:   store,
		cache:   c,
		images:  images,
		uploads: dir,
	}
	f.author = storagetest.MustUser(t, store, "Alex Smith", "author@example.com", models.RoleAuthor)
	f.other = storagetest.MustUser(t, store, "Maria Garcia", "maria@example.com", models.RoleAuthor)
	f.admin = storagetest.MustUser(t, store, "Sam Wilson", "admin@example.com", models.RoleAdmin)
	f.reader = storagetest.MustUser(t, store, "Jane Doe", "user@example.com", models.RoleUser)
	return f
}

func input(title string) models.BlogInput {
	return models.BlogInput{
		Title: title, Excerpt: "excerpt", Content: "content",
		ImageURL: "https://picsum.photos/seed/x/800/400", Category: "Technology", Tags: []string{"go", " go ", "web", ""},
	}
}

func TestBlogService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.author, input("Mastering Go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.Slug, "mastering-go-"))
	assert.Equal(t, []string{"go", "web"}, b.Tags)
	require.NotNil(t, b.Author)
	assert.Equal(t, "Alex Smith", b.Author.Name)

	again, err := f.svc.Create(ctx, f.author, input("Mastering Go"))
	require.NoError(t, err)
	assert.NotEqual(t, b.Slug, again.Slug)

	_, err = f.svc.Create(ctx, f.reader, input("Nope"))
	assert.ErrorIs(t, err, services.ErrAuthorOnly)
	assert.Equal(t, errs.Forbidden, errs.KindOf(err))
}

func TestBlogService_UpdateOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.author, input("Original"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   *models.User
		wantErr error
	}{
		{name: "other author is forbidden", actor: f.other, wantErr: services.ErrNotAuthorized},
		{name: "plain user is forbidden", actor: f.reader, wantErr: services.ErrNotAuthorized},
		{name: "owner may update", actor: f.author},
		{name: "admin may update", actor: f.admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Update(ctx, tt.actor, b.ID, models.BlogPatch{Excerpt: "by " + tt.actor.Name})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err = f.svc.Update(ctx, f.admin, "00000000-0000-0000-0000-000000000000", models.BlogPatch{Title: "x"})
	assert.ErrorIs(t, err, services.ErrBlogNotFound)
}

func TestBlogService_UpdateFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.author, input("Original"))
	require.NoError(t, err)

	same, err := f.svc.Update(ctx, f.author, b.ID, models.BlogPatch{Content: "new content"})
	require.NoError(t, err)
	assert.Equal(t, b.Slug, same.Slug, "slug kept when title unchanged")
	assert.Equal(t, "new content", same.Content)
	assert.Equal(t, "excerpt", same.Excerpt, "empty fields are not replaced")
	assert.Equal(t, []string{"go", "web"}, same.Tags)

	renamed, err := f.svc.Update(ctx, f.author, b.ID, models.BlogPatch{Title: "Renamed"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(renamed.Slug, "renamed-"))

	_, err = f.svc.GetBySlug(ctx, b.Slug)
	assert.ErrorIs(t, err, services.ErrBlogNotFound)
	got, err := f.svc.GetBySlug(ctx, renamed.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestBlogService_GetBySlugUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.author, input("Cached"))
	require.NoError(t, err)

	_, err = f.svc.GetBySlug(ctx, b.Slug)
	require.NoError(t, err)

	var cached models.Blog
	found, err := f.cache.Get(ctx, "blog:slug:"+b.Slug, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, b.ID, cached.ID)

	_, err = f.svc.Update(ctx, f.author, b.ID, models.BlogPatch{Excerpt: "fresh"})
	require.NoError(t, err)
	found, err = f.cache.Get(ctx, "blog:slug:"+b.Slug, &cached)
	require.NoError(t, err)
	assert.False(t, found, "update invalidates the cached copy")

	got, err := f.svc.GetBySlug(ctx, b.Slug)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Excerpt)
}

func TestBlogService_GetBySlugSeesRecordedViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.author, input("Popular"))
	require.NoError(t, err)
	_, err = f.svc.GetBySlug(ctx, b.Slug)
	require.NoError(t, err)

	views := viewservice.NewViewService(f.store, viewservice.NewDirectRecorder(sl.Discard(), f.store, f.cache))
	require.NoError(t, views.Record(ctx, b.ID))
	require.NoError(t, views.Record(ctx, b.ID))

	got, err := f.svc.GetBySlug(ctx, b.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ViewCount)
}

func TestBlogService_WithoutCache(t *testing.T) {
	store := memory.New()
	images, err := uploads.New(t.TempDir())
	require.NoError(t, err)
	svc := services.NewBlogService(sl.Discard(), store, nil, images, slug.New(), time.Minute)
	author := storagetest.MustUser(t, store, "Alex Smith", "author@example.com", models.RoleAuthor)

	b, err := svc.Create(context.Background(), author, input("No cache"))
	require.NoError(t, err)
	got, err := svc.GetBySlug(context.Background(), b.Slug)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	require.NoError(t, svc.Delete(context.Background(), author, b.ID))
}

func TestBlogService_ImageLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.UploadImage(ctx, ".png", strings.NewReader("one"))
	require.NoError(t, err)
	in := input("With image")
	in.ImageURL = first
	b, err := f.svc.Create(ctx, f.author, in)
	require.NoError(t, err)

	second, err := f.svc.UploadImage(ctx, ".png", strings.NewReader("two"))
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, f.author, b.ID, models.BlogPatch{ImageURL: second})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(f.uploads, filepath.Base(first)))
	assert.True(t, os.IsNotExist(err), "replaced image is removed")

	require.NoError(t, f.svc.Delete(ctx, f.author, b.ID))
	_, err = os.Stat(filepath.Join(f.uploads, filepath.Base(second)))
	assert.True(t, os.IsNotExist(err), "deleted blog image is removed")
}

func TestBlogService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.author, input("Doomed"))
	require.NoError(t, err)
	storagetest.MustComment(t, f.store, f.reader.ID, b.ID, nil, "first!")

	assert.ErrorIs(t, f.svc.Delete(ctx, f.other, b.ID), services.ErrNotAuthorized)
	require.NoError(t, f.svc.Delete(ctx, f.admin, b.ID))

	comments, err := f.store.ListComments(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.admin, b.ID), services.ErrBlogNotFound)
}

func TestBlogService_Listings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, f.author, input("One"))
	require.NoError(t, err)
	design := input("Two")
	design.Category = "Design"
	design.Tags = []string{"css"}
	_, err = f.svc.Create(ctx, f.other, design)
	require.NoError(t, err)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Two", all[0].Title)

	tagged, err := f.svc.ListByTag(ctx, "css")
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	mine, err := f.svc.ListByAuthor(ctx, f.author.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	cats, err := f.svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Technology"}, cats)
}
