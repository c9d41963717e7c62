// Package logger собирает *slog.Logger в зависимости от окружения.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Окружения, поддерживаемые конфигом.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvDev         = "dev"
	EnvProd        = "prod"
)

// New возвращает логгер: текстовый с уровнем Debug для локального запуска,
// JSON с Debug для dev и JSON с Info для prod и всего остального.
func New(env string) *slog.Logger {
	return newWithWriter(env, os.Stdout)
}

func newWithWriter(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvLocal, EnvDevelopment:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
