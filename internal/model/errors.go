package model

import "errors"

// Виды ошибок, которые видит вызывающая сторона.
// Конкретные ошибки оборачивают их через fmt.Errorf("%w: ...").
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrInvalidState = errors.New("invalid state")
	ErrTransientIO  = errors.New("transient io error")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// IsRetryable сообщает, имеет ли смысл повторить операцию
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientIO)
}
