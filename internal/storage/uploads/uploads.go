// Package uploads хранит обложки постов на локальном диске и раздаёт их по префиксу /uploads/.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// URLPrefix префикс публичного адреса загруженных файлов.
const URLPrefix = "/uploads/"

// Store сохраняет файлы в каталоге dir.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New создаёт каталог, если его нет.
func New(dir string) (*Store, error) {
	const op = "uploads.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir возвращает каталог хранения.
func (s *Store) Dir() string {
	return s.dir
}

// Save сохраняет содержимое под именем image-<unix-ms><ext> и возвращает публичный адрес.
func (s *Store) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	const op = "uploads.Save"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	f, name, err := s.create(strings.ToLower(ext))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return URLPrefix + name, nil
}

func (s *Store) create(ext string) (*os.File, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	for {
		name := "image-" + strconv.FormatInt(ms, 10) + ext
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			ms++
			continue
		}
		return f, name, err
	}
}

// IsLocal сообщает, указывает ли адрес на локально загруженный файл.
func IsLocal(url string) bool {
	return strings.HasPrefix(url, URLPrefix)
}

// Remove удаляет локальный файл по публичному адресу. Чужие адреса игнорируются,
// отсутствующий файл не считается ошибкой.
func (s *Store) Remove(url string) error {
	const op = "uploads.Remove"
	if !IsLocal(url) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, URLPrefix))
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
