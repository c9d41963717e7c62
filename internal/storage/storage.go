// Package storage объявляет ошибки, общие для всех драйверов хранилища.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken email уже занят другим пользователем.
	ErrEmailTaken = errors.New("email already taken")
	// ErrSlugTaken slug уже занят другим постом.
	ErrSlugTaken = errors.New("slug already taken")
)
