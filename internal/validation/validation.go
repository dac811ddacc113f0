package validation

import (
	"errors"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns the shared validator instance.
func New() *validatorv10.Validate {
	return validatorv10.New(validatorv10.WithRequiredStructEnabled())
}

// FieldErrors flattens a validator error into a field -> message map for
// 422 responses. Non-validation errors yield a single generic entry.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validatorv10.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = "invalid request body"
		return out
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "is required"
		case "email":
			out[field] = "must be a valid email address"
		case "min":
			out[field] = "must be at least " + fe.Param()
		case "max":
			out[field] = "must be at most " + fe.Param()
		case "oneof":
			out[field] = "must be one of: " + fe.Param()
		default:
			out[field] = "is invalid"
		}
	}

	return out
}
