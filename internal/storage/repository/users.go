package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/blog-platform/internal/models"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.avatar_url, u.bio,
	u.refresh_token_hash, u.created_at, u.updated_at,
	COALESCE((SELECT array_agg(f.blog_id::text ORDER BY f.created_at)
	          FROM user_favorites f WHERE f.user_id = u.id), '{}')`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var refresh sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.AvatarURL, &u.Bio,
		&refresh, &u.CreatedAt, &u.UpdatedAt, s.types.SQLScanner(&u.Favorites)); err != nil {
		return nil, err
	}
	if refresh.Valid {
		u.RefreshTokenHash = &refresh.String
	}
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
	return u, nil
}

// CreateUser сохраняет пользователя и заполняет ID и метки времени.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	query := `INSERT INTO users (name, email, password_hash, role, avatar_url, bio, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.AvatarURL, user.Bio, now,
	).Scan(&user.ID); err != nil {
		return mapError(op, err)
	}
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Favorites == nil {
		user.Favorites = []string{}
	}
	return nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.created_at, u.id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetRefreshToken сохраняет дайджест refresh-токена; nil очищает его.
func (s *Storage) SetRefreshToken(ctx context.Context, userID string, digest *string) error {
	const op = "storage.SetRefreshToken"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = $1, updated_at = now() WHERE id = $2`, digest, userID)
	if err != nil {
		return mapError(op, err)
	}
	return expectAffected(op, res)
}

// UpdateRole меняет роль пользователя.
func (s *Storage) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	const op = "storage.UpdateRole"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, role, userID)
	if err != nil {
		return mapError(op, err)
	}
	return expectAffected(op, res)
}

// DeleteUser удаляет пользователя. Избранное удаляется каскадно,
// авторство постов и комментариев обнуляется.
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return mapError(op, err)
	}
	return expectAffected(op, res)
}

// ToggleFavorite переключает пост в избранном и сообщает, добавлен ли он.
func (s *Storage) ToggleFavorite(ctx context.Context, userID, blogID string) (bool, error) {
	const op = "storage.ToggleFavorite"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var added bool
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM user_favorites WHERE user_id = $1 AND blog_id = $2`, userID, blogID)
		if err != nil {
			return mapError(op, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		} else if n > 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_favorites (user_id, blog_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, blogID); err != nil {
			return mapError(op, err)
		}
		added = true
		return nil
	})
	return added, err
}
