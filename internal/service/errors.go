package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAccessDenied : неверный токен, чужой запрос или запрос не active. Наружу уходит без деталей
	ErrAccessDenied = errors.New("доступ запрещён")
	// ErrValidation : мета-данные файла нарушают политику или превышена квота
	ErrValidation = errors.New("некорректные данные")
	// ErrConflict : повторный finalize или неизвестный файл
	ErrConflict = errors.New("конфликт состояния")
	// ErrNotFound : только для внутренних эндпоинтов
	ErrNotFound = errors.New("не найдено")
)

// Внутренние причины отказа, пишутся в журнал обращений
const (
	ReasonInvalidToken     = "invalid_token"
	ReasonRequestNotFound  = "request_not_found"
	ReasonRevoked          = "revoked"
	ReasonExpired          = "expired"
	ReasonCompleted        = "completed"
	ReasonFileNotInRequest = "file_not_in_request"
	ReasonFileNotFound     = "file_not_found"
	ReasonAlreadyFinalized = "already_finalized"
)

// PortalError : ошибка с видом (Kind) и причиной.
// errors.Is срабатывает и на вид, и на исходную ошибку
type PortalError struct {
	Kind   error
	Reason string
	Cause  error
}

func (e *PortalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *PortalError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func accessDenied(reason string) error {
	return &PortalError{Kind: ErrAccessDenied, Reason: reason}
}

func validationError(reason string) error {
	return &PortalError{Kind: ErrValidation, Reason: reason}
}

func conflictError(reason string, cause error) error {
	return &PortalError{Kind: ErrConflict, Reason: reason, Cause: cause}
}

func notFound(reason string) error {
	return &PortalError{Kind: ErrNotFound, Reason: reason}
}

// Reason : причина из цепочки ошибок, пустая строка для прочих ошибок
func Reason(err error) string {
	var portalErr *PortalError
	if errors.As(err, &portalErr) {
		return portalErr.Reason
	}
	return ""
}
