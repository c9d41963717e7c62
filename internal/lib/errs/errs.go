// Package errs задаёт таксономию ошибок бизнес-уровня и их отображение на HTTP-статусы.
//
// Сервисы объявляют сигнальные ошибки через New с нужным Kind, хранилище и прочие
// слои оборачивают их через fmt.Errorf("%w"), а HTTP-слой получает статус через KindOf.
package errs

import (
	"errors"
	"net/http"
)

// Kind классифицирует ошибку для внешнего мира.
type Kind uint8

const (
	// Internal непредвиденная ошибка, детали клиенту не раскрываются.
	Internal Kind = iota
	// Validation некорректные или отсутствующие входные данные.
	Validation
	// Unauthorized отсутствуют или невалидны учётные данные.
	Unauthorized
	// Forbidden пользователь аутентифицирован, но прав недостаточно.
	Forbidden
	// NotFound ресурс не найден.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus возвращает HTTP-статус для данного вида ошибки.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error ошибка с видом и сообщением, безопасным для показа клиенту.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// New создаёт ошибку заданного вида.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf возвращает вид первой *Error в цепочке err; для прочих ошибок Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message возвращает клиентское сообщение: текст *Error из цепочки
// либо обобщённый текст для внутренних ошибок.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Msg
	}
	return "internal server error"
}
