package services

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"lapak/internal/apperrors"
)

// constraintError translates the first field error from validator/v10 into
// the application's validation failure messages.
func constraintError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return apperrors.NewValidation("invalid input: %v", err)
	}

	fe := validationErrors[0]
	field := strings.ToLower(fe.Field())
	switch {
	case field == "price" && fe.Tag() == "gt":
		return apperrors.NewValidation("price must be greater than 0")
	case field == "stock" && fe.Tag() == "gte":
		return apperrors.NewValidation("stock cannot be negative")
	case field == "quantity" && fe.Tag() == "gt":
		return apperrors.NewValidation("quantity must be greater than 0")
	case field == "name" && fe.Tag() == "min":
		return apperrors.NewValidation("name cannot be empty")
	default:
		return apperrors.NewValidation("field '%s' failed on the '%s' constraint", field, fe.Tag())
	}
}

func missingField(name string) error {
	return apperrors.NewValidation("missing required field: %s", name)
}
