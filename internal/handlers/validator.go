package handlers

import (
	"banking-api/internal/validation"

	"github.com/labstack/echo/v4"
)

// CustomValidator implements the echo.Validator interface on top of the
// shared validation package so custom tags (money_amount, sort_by,
// sort_order) are available to every handler.
type CustomValidator struct {
	validator *validation.Validator
}

// NewValidator creates a new custom validator
func NewValidator() echo.Validator {
	return &CustomValidator{validator: validation.GetValidator()}
}

// Validate implements the echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.GetValidate().Struct(i)
}
