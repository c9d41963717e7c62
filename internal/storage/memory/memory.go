// Package memory реализует хранилище платформы в памяти процесса. Используется драйвером
// storage_driver: memory для локального запуска и в тестах сервисов и HTTP-слоя.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

type blogRecord struct {
	blog models.Blog
	seq  int
}

// Storage хранит пользователей, посты, комментарии и избранное под одним мьютексом.
type Storage struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	byEmail   map[string]string
	blogs     map[string]*blogRecord
	bySlug    map[string]string
	comments  []models.Comment
	favorites map[string][]string
	seq       int
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:     make(map[string]*models.User),
		byEmail:   make(map[string]string),
		blogs:     make(map[string]*blogRecord),
		bySlug:    make(map[string]string),
		favorites: make(map[string][]string),
	}
}

// Ping сообщает о доступности хранилища; в памяти оно доступно всегда.
func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close ничего не освобождает.
func (s *Storage) Close() error {
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func checkCtx(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

func (s *Storage) userCopy(u *models.User) *models.User {
	c := *u
	c.Favorites = append([]string{}, s.favorites[u.ID]...)
	if u.RefreshTokenHash != nil {
		h := *u.RefreshTokenHash
		c.RefreshTokenHash = &h
	}
	return &c
}

func (s *Storage) authorOf(id string) *models.AuthorSummary {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &models.AuthorSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL, Bio: u.Bio}
}

func (s *Storage) blogCopy(r *blogRecord) *models.Blog {
	b := r.blog
	b.Tags = append([]string{}, r.blog.Tags...)
	b.Author = s.authorOf(b.AuthorID)
	return &b
}

func (s *Storage) commentCopy(c models.Comment) models.Comment {
	if c.ParentID != nil {
		p := *c.ParentID
		c.ParentID = &p
	}
	if a := s.authorOf(c.AuthorID); a != nil {
		a.Bio = ""
		c.Author = a
	} else {
		c.AuthorID = ""
		c.Author = models.DeletedAuthor()
	}
	return c
}

// ===== USERS =====

// CreateUser сохраняет пользователя и заполняет ID и метки времени.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	const op = "memory.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
	}
	t := now()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = t, t
	user.Favorites = []string{}
	stored := *user
	stored.RefreshTokenHash = nil
	s.users[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "memory.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound(op)
	}
	return s.userCopy(u), nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "memory.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, notFound(op)
	}
	return s.userCopy(s.users[id]), nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "memory.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, s.userCopy(u))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// SetRefreshToken сохраняет дайджест refresh-токена; nil очищает его.
func (s *Storage) SetRefreshToken(ctx context.Context, userID string, digest *string) error {
	const op = "memory.SetRefreshToken"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return notFound(op)
	}
	if digest == nil {
		u.RefreshTokenHash = nil
	} else {
		d := *digest
		u.RefreshTokenHash = &d
	}
	u.UpdatedAt = now()
	return nil
}

// UpdateRole меняет роль пользователя.
func (s *Storage) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	const op = "memory.UpdateRole"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return notFound(op)
	}
	u.Role = role
	u.UpdatedAt = now()
	return nil
}

// DeleteUser удаляет пользователя и его избранное. Посты и комментарии остаются без автора.
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	const op = "memory.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return notFound(op)
	}
	delete(s.byEmail, u.Email)
	delete(s.users, userID)
	delete(s.favorites, userID)
	for _, r := range s.blogs {
		if r.blog.AuthorID == userID {
			r.blog.AuthorID = ""
		}
	}
	for i := range s.comments {
		if s.comments[i].AuthorID == userID {
			s.comments[i].AuthorID = ""
		}
	}
	return nil
}

// ToggleFavorite переключает пост в избранном и сообщает, добавлен ли он.
func (s *Storage) ToggleFavorite(ctx context.Context, userID, blogID string) (bool, error) {
	const op = "memory.ToggleFavorite"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return false, notFound(op)
	}
	favs := s.favorites[userID]
	if i := slices.Index(favs, blogID); i >= 0 {
		s.favorites[userID] = slices.Delete(favs, i, i+1)
		return false, nil
	}
	if _, ok := s.blogs[blogID]; !ok {
		return false, notFound(op)
	}
	s.favorites[userID] = append(favs, blogID)
	return true, nil
}
