package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	owner := &User{ID: "u1", Role: RoleAuthor}
	stranger := &User{ID: "u2", Role: RoleAuthor}
	admin := &User{ID: "u3", Role: RoleAdmin}

	assert.True(t, CanModify(owner, "u1"))
	assert.False(t, CanModify(stranger, "u1"))
	assert.True(t, CanModify(admin, "u1"))
	assert.True(t, CanModify(admin, ""))
	assert.False(t, CanModify(owner, ""))
	assert.False(t, CanModify(nil, "u1"))
}

func TestSanitized(t *testing.T) {
	hash := "digest"
	u := &User{ID: "u1", PasswordHash: "secret", RefreshTokenHash: &hash, Favorites: []string{"b1"}}

	s := u.Sanitized()
	assert.Empty(t, s.PasswordHash)
	assert.Nil(t, s.RefreshTokenHash)
	assert.Equal(t, []string{"b1"}, s.Favorites)

	s.Favorites[0] = "changed"
	assert.Equal(t, "b1", u.Favorites[0])
	assert.Equal(t, "secret", u.PasswordHash)
}

func TestDefaultAvatarURL(t *testing.T) {
	assert.Equal(t, "https://picsum.photos/seed/Jane/100/100", DefaultAvatarURL("Jane Doe"))
	assert.Equal(t, "https://picsum.photos/seed/default/100/100", DefaultAvatarURL("  "))
}
