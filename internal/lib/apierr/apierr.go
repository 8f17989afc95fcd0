// Package apierr описывает типизированные ошибки API.
//
// Каждая ошибка знает свой HTTP-статус и сообщение для клиента. Единый
// обработчик ошибок (response.WriteError) отображает их в тело
// {"status": <код>, "message": <текст>}. Любая другая ошибка считается
// непредвиденной и отдаётся как 500.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind — класс ошибки API.
type Kind string

// Классы ошибок API.
const (
	KindBadRequest         Kind = "BadRequest"
	KindDuplicateEmail     Kind = "DuplicateEmail"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindMissingToken       Kind = "MissingToken"
	KindInvalidToken       Kind = "InvalidToken"
	KindExpiredToken       Kind = "ExpiredToken"
	KindPostNotFound       Kind = "PostNotFound"
)

// Сообщения, которые не зависят от входных данных.
const (
	MsgInvalidCredentials = "Wrong credentials provided"
	MsgMissingToken       = "Authentication token missing"
	MsgInternal           = "Something went wrong"
)

// Error — ошибка API с HTTP-статусом.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// BadRequest — тело запроса не прошло разбор или валидацию.
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Message: msg}
}

// DuplicateEmail — пользователь с таким email уже зарегистрирован.
func DuplicateEmail(email string) *Error {
	return &Error{
		Kind:    KindDuplicateEmail,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Email %s already exists", email),
	}
}

// InvalidCredentials — неизвестный email или неверный пароль.
// Оба случая намеренно неразличимы для клиента.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Status: http.StatusUnauthorized, Message: MsgInvalidCredentials}
}

// MissingToken — нет заголовка Authorization со схемой Bearer.
func MissingToken() *Error {
	return &Error{Kind: KindMissingToken, Status: http.StatusUnauthorized, Message: MsgMissingToken}
}

// InvalidToken — токен поврежден, подпись неверна или пользователь не найден.
func InvalidToken(name, msg string) *Error {
	return &Error{Kind: KindInvalidToken, Status: http.StatusUnauthorized, Message: name + ": " + msg}
}

// ExpiredToken — срок жизни токена истёк.
func ExpiredToken(name, msg string) *Error {
	return &Error{Kind: KindExpiredToken, Status: http.StatusUnauthorized, Message: name + ": " + msg}
}

// PostNotFound — пост не найден или id имеет неверный формат.
func PostNotFound(id string) *Error {
	return &Error{
		Kind:    KindPostNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("Post with id %s not found", id),
	}
}

// Is сообщает, что в цепочке err есть ошибка API класса kind.
func Is(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Resolve возвращает статус и сообщение для ответа клиенту.
// Для непредвиденных ошибок это 500 и общее сообщение.
func Resolve(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	return http.StatusInternalServerError, MsgInternal
}
