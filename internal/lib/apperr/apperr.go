// Package apperr определяет типизированные операционные ошибки сервиса.
//
// Каждая ошибка несёт вид (Kind) и сообщение, пригодное для показа клиенту.
// Непредвиденные ошибки, не обёрнутые в *Error, считаются внутренними:
// наружу уходит только общий текст, подробности остаются в логах.
package apperr

import (
	"errors"
	"net/http"
)

// Kind классифицирует операционную ошибку.
type Kind int

const (
	// KindInternal — непредвиденная ошибка, подробности скрываются от клиента.
	KindInternal Kind = iota
	// KindValidation — некорректные входные данные.
	KindValidation
	// KindConflict — нарушение уникальности, например занятый email.
	KindConflict
	// KindUnauthorized — отсутствующие или неверные учётные данные.
	KindUnauthorized
	// KindForbidden — аутентифицированный пользователь не владеет ресурсом.
	KindForbidden
	// KindNotFound — ресурс не существует.
	KindNotFound
)

// Error — операционная ошибка с видом и сообщением для клиента.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Kind возвращает вид ошибки.
func (e *Error) Kind() Kind { return e.kind }

// Message возвращает сообщение, предназначенное для клиента.
func (e *Error) Message() string { return e.msg }

// New создаёт операционную ошибку указанного вида.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap создаёт операционную ошибку, сохраняя исходную причину.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

// Validation создаёт ошибку некорректных входных данных.
func Validation(msg string) *Error { return New(KindValidation, msg) }

// Conflict создаёт ошибку нарушения уникальности.
func Conflict(msg string) *Error { return New(KindConflict, msg) }

// Unauthorized создаёт ошибку аутентификации.
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }

// Forbidden создаёт ошибку доступа к чужому ресурсу.
func Forbidden(msg string) *Error { return New(KindForbidden, msg) }

// NotFound создаёт ошибку отсутствующего ресурса.
func NotFound(msg string) *Error { return New(KindNotFound, msg) }

// KindOf возвращает вид ошибки. Для нетипизированных ошибок — KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}

// HTTPStatus возвращает HTTP-статус, соответствующий виду ошибки.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage возвращает сообщение для клиента.
// Для внутренних ошибок наружу уходит только общий текст.
func UserMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.kind != KindInternal {
		return appErr.msg
	}
	return "internal server error"
}
