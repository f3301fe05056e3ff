package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// HandleValidationErrors converts a ReadJSON/validator failure into the error
// envelope, listing per-field problems when the validator produced them.
func HandleValidationErrors(err error, ctx iris.Context) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		JSONError(ctx, iris.StatusBadRequest, "bad_request", "Malformed JSON body")
		return
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "url":
			problems[field] = append(problems[field], "Value must be a valid URL")
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(iris.Map{
		"status":  "error",
		"error":   "validation_error",
		"message": "Validation failed",
		"fields":  problems,
	})
}
