// Package models содержит доменные структуры платформы: пользователей, посты и комментарии,
// а также структуры входных данных HTTP-запросов.
package models

import (
	"fmt"
	"strings"
	"time"
)

// User представляет зарегистрированного пользователя.
//
// PasswordHash и RefreshTokenHash никогда не попадают в JSON.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	AvatarURL        string    `json:"avatarUrl"`
	Bio              string    `json:"bio,omitempty"`
	Favorites        []string  `json:"favorites"`
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Sanitized возвращает копию пользователя без секретных полей.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.RefreshTokenHash = nil
	c.Favorites = append([]string{}, u.Favorites...)
	return &c
}

// HasFavorite сообщает, есть ли пост в избранном.
func (u *User) HasFavorite(blogID string) bool {
	for _, id := range u.Favorites {
		if id == blogID {
			return true
		}
	}
	return false
}

// CanModify реализует правило владельца: изменять ресурс может его владелец или Admin.
// Пустой ownerID (владелец удалён) оставляет доступ только администратору.
func CanModify(actor *User, ownerID string) bool {
	if actor == nil {
		return false
	}
	if actor.Role == RoleAdmin {
		return true
	}
	return ownerID != "" && actor.ID == ownerID
}

// DefaultAvatarURL строит адрес аватара по первому слову имени.
func DefaultAvatarURL(name string) string {
	seed := "default"
	if fields := strings.Fields(name); len(fields) > 0 {
		seed = fields[0]
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s/100/100", seed)
}

// AuthorSummary публичная часть профиля автора, встраиваемая в посты и комментарии.
type AuthorSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// DeletedUserName имя-заглушка для комментариев и постов удалённых пользователей.
const DeletedUserName = "Deleted user"

// DeletedAuthor возвращает заглушку автора.
func DeletedAuthor() *AuthorSummary {
	return &AuthorSummary{Name: DeletedUserName}
}
