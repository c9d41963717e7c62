// Package cookie управляет cookie с refresh-токеном.
package cookie

import (
	"net/http"
	"time"
)

const (
	// Name имя cookie с refresh-токеном.
	Name = "refreshToken"
	// Path ограничивает отправку cookie маршрутами аутентификации.
	Path = "/api/auth"
)

// Config задаёт параметры cookie.
type Config struct {
	Secure bool
	TTL    time.Duration
}

// Set записывает refresh-токен в cookie.
func (c Config) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     Path,
		MaxAge:   int(c.TTL.Seconds()),
		Expires:  time.Now().Add(c.TTL),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear просит клиента удалить cookie.
func (c Config) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Read возвращает refresh-токен из запроса или пустую строку.
func Read(r *http.Request) string {
	c, err := r.Cookie(Name)
	if err != nil {
		return ""
	}
	return c.Value
}
