// Package middleware holds the Fiber cross-cutting concerns: error formatting, request
// validation, and lightweight performance counters.
package middleware

import (
	"log"
	"runtime/debug"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the standard `{error, detail}` shape for all API errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ErrorHandler recovers from panics and formats every error as ErrorResponse.
func ErrorHandler(c *fiber.Ctx) error {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("🔥 PANIC RECOVERED: %v\n%s", r, debug.Stack())
			c.Status(500).JSON(ErrorResponse{Error: "internal_error", Detail: "Internal Server Error"})
		}
	}()

	err := c.Next()
	if err != nil {
		log.Printf("❌ Error: %v | Path: %s | Method: %s", err, c.Path(), c.Method())
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(ErrorResponse{Error: "request_error", Detail: e.Message})
		}
		return c.Status(500).JSON(ErrorResponse{Error: "internal_error", Detail: err.Error()})
	}
	return nil
}

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidateStruct(s interface{}) []ValidationError {
	var errors []ValidationError
	if err := validate.Struct(s); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{Field: fe.Field(), Message: errorMessage(fe)})
		}
	}
	return errors
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is below minimum (" + fe.Param() + ")"
	case "max":
		return "Value exceeds maximum (" + fe.Param() + ")"
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "lte":
		return "Must be less than or equal to " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	default:
		return "Invalid value for " + fe.Field()
	}
}

// ValidateBody parses the request body into out and validates it. A parse failure returns a
// 400 fiber.Error; a validation failure writes the 400 response itself and returns the result
// of that write (nil when the write succeeds).
func ValidateBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(400, "Invalid request body")
	}
	if errs := ValidateStruct(out); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid_input", "detail": errs})
	}
	return nil
}

// PerformanceMiddleware counts requests and errors in the process-local RequestCount and
// ErrorCount counters; no endpoint reports them.
func PerformanceMiddleware(c *fiber.Ctx) error {
	atomic.AddUint64(&RequestCount, 1)
	err := c.Next()
	if err != nil || (c.Response().StatusCode() >= 400 && c.Response().StatusCode() != 429) {
		atomic.AddUint64(&ErrorCount, 1)
	}
	return err
}

var (
	RequestCount uint64
	ErrorCount   uint64
)
