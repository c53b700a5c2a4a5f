package validation

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StructValidator is shared by every request struct.
var StructValidator = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse describes one failed field.
type ErrorResponse struct {
	FailedField string `json:"failed_field"`
	Tag         string `json:"tag"`
	Value       string `json:"value"`
	Message     string `json:"message"`
}

// ValidateStruct returns one ErrorResponse per failed rule, or nil.
func ValidateStruct(payload interface{}) []*ErrorResponse {
	err := StructValidator.Struct(payload)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*ErrorResponse{{Tag: "invalid", Message: err.Error()}}
	}

	var errors []*ErrorResponse
	for _, fe := range fieldErrors {
		value := fmt.Sprintf("%v", fe.Value())
		if fe.Field() == "Password" {
			value = ""
		}
		errors = append(errors, &ErrorResponse{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
			Value:       value,
			Message:     generateValidationMessage(fe),
		})
	}
	return errors
}

func sized(kind reflect.Kind) bool {
	switch kind {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return true
	}
	return false
}

func generateValidationMessage(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "min":
		if sized(err.Kind()) {
			return fmt.Sprintf("The %s field must have at least %s characters.", field, param)
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, param)
	case "max":
		if sized(err.Kind()) {
			return fmt.Sprintf("The %s field must have at most %s characters.", field, param)
		}
		return fmt.Sprintf("The %s field must be at most %s.", field, param)
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", field, param)
	default:
		return fmt.Sprintf("The %s field is not valid (tag: %s).", field, err.Tag())
	}
}

// ParseAndValidate parses the body (JSON or form) into payload and validates it.
// On failure it writes a 400 response and returns false.
func ParseAndValidate(c *fiber.Ctx, payload interface{}) bool {
	if err := c.BodyParser(payload); err != nil {
		zap.L().Warn("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
		return false
	}

	validationErrors := ValidateStruct(payload)
	if validationErrors != nil {
		errorMessages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			errorMessages[i] = ve.Message
		}
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "Validation failed",
			"details":  validationErrors,
			"messages": errorMessages,
		})
		return false
	}
	return true
}
