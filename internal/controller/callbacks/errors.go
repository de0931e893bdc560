package callbacks

import (
	"errors"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
)

var (
	ErrAccountNotLinked = errors.New("telegram chat is not linked to an account")
	ErrInvalidFormat    = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrAccountNotLinked):
		return "❌ This chat is not linked to a tutoring account"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid request"
	case errors.Is(err, model.ErrNotFound):
		return "❌ Session request not found"
	case errors.Is(err, model.ErrForbidden):
		return "❌ You are not a party of this session"
	case errors.Is(err, model.ErrInvalidState):
		return "ℹ️ This request has already been answered"
	case errors.Is(err, model.ErrTransientIO):
		return "⏳ Service is temporarily unavailable, try again later"
	default:
		return "❌ Something went wrong"
	}
}
