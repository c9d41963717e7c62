package models

import (
	"database/sql/driver"
	"fmt"
)

// Role закрытое перечисление ролей с порядком Guest < User < Author < Admin.
// Нулевое значение не является допустимой ролью.
type Role uint8

const (
	roleInvalid Role = iota
	// RoleGuest гость без права писать.
	RoleGuest
	// RoleUser зарегистрированный читатель, может комментировать.
	RoleUser
	// RoleAuthor автор постов.
	RoleAuthor
	// RoleAdmin администратор.
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleGuest:  "Guest",
	RoleUser:   "User",
	RoleAuthor: "Author",
	RoleAdmin:  "Admin",
}

// ParseRole разбирает строковое имя роли.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return roleInvalid, fmt.Errorf("models.ParseRole: unknown role %q", s)
}

// Valid сообщает, является ли значение одной из четырёх ролей.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// AtLeast сообщает, что роль r не ниже other в иерархии.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && other.Valid() && r >= other
}

// In сообщает, входит ли роль в список разрешённых.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// MarshalText реализует encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("models.Role: invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value реализует driver.Valuer: роль хранится в БД строкой.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("models.Role: invalid role %d", uint8(r))
	}
	return r.String(), nil
}

// Scan реализует sql.Scanner.
func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("models.Role: cannot scan %T", src)
	}
}
