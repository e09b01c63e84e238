package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrorMessage renders a request binding failure as a caller-facing
// message, listing each failed field and rule when the failure came from
// struct validation.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, len(verrs))
		for i, fe := range verrs {
			parts[i] = fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag())
		}
		return "Invalid request: " + strings.Join(parts, "; ")
	}
	return "Invalid request format: " + err.Error()
}
