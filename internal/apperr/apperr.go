// Package apperr определяет классификацию ошибок сервиса и их соответствие
// HTTP-статусам. Сервисы возвращают *Error, обработчики отображают его в
// JSON-ответ; любая другая ошибка трактуется как внутренняя.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Код ошибки, стабильный для клиентов.
const (
	CodeIncompleteData      = "INCOMPLETE_DATA"
	CodeInvalidFormat       = "INVALID_FORMAT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeNameAlreadyExists   = "NAME_ALREADY_EXISTS"
	CodeAccountDeleted      = "ACCOUNT_DELETED"
	CodeAccountLocked       = "ACCOUNT_LOCKED"
	CodeStorageFailure      = "STORAGE_FAILURE"
	CodeNotificationFailure = "NOTIFICATION_FAILURE"
)

// Error классифицированная ошибка сервиса.
type Error struct {
	Status  int    // HTTP-статус
	Code    string // машинно-читаемый код
	Message string
	err     error // завёрнутая причина, для логов
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// Incomplete возвращает ошибку о недостающих обязательных полях.
func Incomplete(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeIncompleteData, Message: msg}
}

// InvalidFormat возвращает ошибку о поле, не прошедшем структурную проверку.
func InvalidFormat(field string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeInvalidFormat, Message: "invalid " + field}
}

// Unauthorized возвращает нарочито неконкретную ошибку аутентификации:
// несуществующая учётная запись неотличима от неверных учётных данных.
func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: "unauthorized"}
}

// Forbidden возвращает ошибку о нехватке прав или нарушении бизнес-правила.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: msg}
}

// NotFound возвращает ошибку об отсутствии ресурса.
func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

// NameConflict возвращает ошибку о занятом имени учётной записи.
func NameConflict() *Error {
	return &Error{Status: http.StatusConflict, Code: CodeNameAlreadyExists, Message: "account name already exists"}
}

// AccountDeleted возвращает ошибку об удалённой учётной записи.
func AccountDeleted() *Error {
	return &Error{Status: http.StatusGone, Code: CodeAccountDeleted, Message: "account is deleted"}
}

// AccountLocked возвращает ошибку о заблокированной учётной записи.
func AccountLocked() *Error {
	return &Error{Status: http.StatusLocked, Code: CodeAccountLocked, Message: "account is locked"}
}

// Storage возвращает ошибку хранилища с завёрнутой причиной.
func Storage(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeStorageFailure, Message: "storage failure", err: err}
}

// Notification возвращает ошибку доставки уведомления с завёрнутой причиной.
func Notification(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeNotificationFailure, Message: "notification dispatch failed", err: err}
}

// From извлекает *Error из цепочки. Неклассифицированная ошибка считается
// ошибкой хранилища.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Storage(err)
}
