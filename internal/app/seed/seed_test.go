package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/blog-platform/internal/app/blogplatform"
	"github.com/magabrotheeeer/blog-platform/internal/config"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage/memory"
	"github.com/magabrotheeeer/blog-platform/internal/storage/uploads"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		JWTToken:   config.JWTToken{AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Hour, RefreshTTL: time.Hour},
		BcryptCost: bcrypt.MinCost,
	}
	store := memory.New()
	images, err := uploads.New(t.TempDir())
	require.NoError(t, err)
	svc := blogplatform.NewServices(cfg, sl.Discard(), store, nil, nil, images)

	seeded, err := Seed(ctx, sl.Discard(), store, svc)
	require.NoError(t, err)
	assert.True(t, seeded)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(demoUsers))

	admin, err := store.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	blogs, err := store.ListBlogs(ctx)
	require.NoError(t, err)
	assert.Len(t, blogs, len(demoBlogs))

	reader, err := store.GetUserByEmail(ctx, favoriteOwner)
	require.NoError(t, err)
	assert.Len(t, reader.Favorites, 1)

	seeded, err = Seed(ctx, sl.Discard(), store, svc)
	require.NoError(t, err)
	assert.False(t, seeded)
}
