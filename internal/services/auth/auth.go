// Package services содержит регистрацию, вход, обмен refresh-токена, выход
// и проверку access-токена.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/blog-platform/internal/lib/errs"
	"github.com/magabrotheeeer/blog-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/blog-platform/internal/lib/password"
	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
	"github.com/magabrotheeeer/blog-platform/internal/models"
	"github.com/magabrotheeeer/blog-platform/internal/storage"
)

// Ошибки аутентификации. Тексты уходят клиенту как есть.
var (
	ErrUserExists         = errs.New(errs.Validation, "User already exists")
	ErrInvalidCredentials = errs.New(errs.Unauthorized, "Invalid email or password")
	ErrMissingToken       = errs.New(errs.Unauthorized, "No refresh token provided")
	ErrInvalidRefresh     = errs.New(errs.Forbidden, "Invalid refresh token")
	ErrNoAccessToken      = errs.New(errs.Unauthorized, "Not authorized, no token")
	ErrInvalidAccess      = errs.New(errs.Unauthorized, "Not authorized, token failed")
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, userID string, digest *string) error
}

// Hasher хеширует и проверяет пароли.
type Hasher interface {
	GetHash(password string) (string, error)
	CompareHash(hash, password string) error
}

// Tokens пара токенов, выданная при входе.
type Tokens struct {
	Access  string
	Refresh string
}

// AuthService выпускает и проверяет токены. На пользователя хранится один действующий
// refresh-токен: новый вход отзывает предыдущий.
type AuthService struct {
	users   UserRepository
	access  jwt.Maker
	refresh jwt.Maker
	hasher  Hasher
	log     *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(log *slog.Logger, users UserRepository, access, refresh jwt.Maker, hasher Hasher) *AuthService {
	return &AuthService{
		users:   users,
		access:  access,
		refresh: refresh,
		hasher:  hasher,
		log:     log,
	}
}

// NormalizeEmail приводит email к каноническому виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RefreshTTL возвращает время жизни refresh-токена.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.refresh.TTL()
}

// Register создаёт пользователя с ролью User независимо от содержимого запроса.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	const op = "services.auth.Register"
	email := NormalizeEmail(req.Email)

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := s.hasher.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		AvatarURL:    models.DefaultAvatarURL(req.Name),
		Bio:          req.Bio,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Sanitized(), nil
}

// Login проверяет пароль и выдаёт пару токенов. Дайджест нового refresh-токена
// заменяет сохранённый, поэтому прежний refresh-токен перестаёт приниматься.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, Tokens, error) {
	const op = "services.auth.Login"
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, Tokens{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, Tokens{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.hasher.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, Tokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issue(user.ID)
	if err != nil {
		return nil, Tokens{}, fmt.Errorf("%s: %w", op, err)
	}
	digest := password.TokenDigest(tokens.Refresh)
	if err := s.users.SetRefreshToken(ctx, user.ID, &digest); err != nil {
		return nil, Tokens{}, fmt.Errorf("%s: %w", op, err)
	}
	return user.Sanitized(), tokens, nil
}

func (s *AuthService) issue(userID string) (Tokens, error) {
	access, err := s.access.GenerateToken(userID)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.refresh.GenerateToken(userID)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

// Refresh обменивает refresh-токен на новый access-токен. Проверка подписи и сверка
// с сохранённым значением выполняются раздельно. Сам refresh-токен не ротируется.
func (s *AuthService) Refresh(ctx context.Context, presented string) (string, error) {
	const op = "services.auth.Refresh"
	if presented == "" {
		return "", ErrMissingToken
	}
	claims, err := s.refresh.ParseToken(presented)
	if err != nil {
		return "", ErrInvalidRefresh
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrInvalidRefresh
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !password.DigestMatches(user.RefreshTokenHash, presented) {
		return "", ErrInvalidRefresh
	}

	access, err := s.access.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return access, nil
}

// Logout очищает сохранённый refresh-токен, если предъявленный токен валиден.
// Ошибки только логируются: выход для клиента всегда успешен.
func (s *AuthService) Logout(ctx context.Context, presented string) {
	const op = "services.auth.Logout"
	if presented == "" {
		return
	}
	claims, err := s.refresh.ParseToken(presented)
	if err != nil {
		return
	}
	if err := s.users.SetRefreshToken(ctx, claims.UserID, nil); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn("failed to revoke refresh token", sl.Op(op), sl.Err(err))
	}
}

// Authenticate проверяет access-токен и возвращает текущего пользователя без секретов.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "services.auth.Authenticate"
	if accessToken == "" {
		return nil, ErrNoAccessToken
	}
	claims, err := s.access.ParseToken(accessToken)
	if err != nil {
		return nil, ErrInvalidAccess
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidAccess
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Sanitized(), nil
}
