package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateAssign checks an assignment request and returns the first error
// message, or "" when the request is valid.
func validateAssign(req assignRequest) string {
	err := validate.Struct(req)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}
	for _, fe := range verrs {
		if fe.Field() == "PostID" && fe.Tag() == "required" {
			return "Missing 'post_id'"
		}
	}
	return "Invalid request"
}
