package service

import (
	"fmt"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct переводит ошибки валидатора в model.ErrValidation
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", model.ErrValidation, err)
	}
	return nil
}
