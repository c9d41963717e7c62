package models

// RegisterRequest тело запроса регистрации. Роль из запроса не принимается.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Bio      string `json:"bio" validate:"omitempty,max=1000"`
}

// LoginRequest тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse ответ на вход: профиль и access-токен.
type LoginResponse struct {
	*User
	AccessToken string `json:"accessToken"`
}

// RefreshResponse ответ на обмен refresh-токена.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// FavoriteRequest тело запроса переключения избранного.
type FavoriteRequest struct {
	BlogID string `json:"blogId" validate:"required"`
}

// RoleRequest тело запроса смены роли.
type RoleRequest struct {
	Role Role `json:"role" validate:"required"`
}
