// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("amenity", validateAmenity)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Registered so request DTOs can tag amenity slices with
// `dive,amenity`; the canonical vocabulary lives in models, and the
// check is injected at startup to avoid an import cycle.
var amenityVocabularyCheck = func(tag string) bool { return true }

func SetAmenityVocabularyCheck(check func(string) bool) {
	if check != nil {
		amenityVocabularyCheck = check
	}
}

func validateAmenity(fl validator.FieldLevel) bool {
	return amenityVocabularyCheck(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "amenity":
		return e.Value().(string) + " is not a recognized amenity"
	default:
		return e.Field() + " is invalid"
	}
}
