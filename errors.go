package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Report validation failures by JSON field name rather than Go field name.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("username or email already exists")
)

// fieldError describes one rejected request field.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationError reports malformed or missing input. It is always a 400.
type validationError struct {
	Fields []fieldError
}

func newValidationError(field, message string) *validationError {
	return &validationError{Fields: []fieldError{{Field: field, Message: message}}}
}

func (e *validationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// bindingError converts a ShouldBindJSON failure into a validationError with
// per-field detail.
func bindingError(err error) *validationError {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := &validationError{}
		for _, fe := range ves {
			out.Fields = append(out.Fields, fieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return out
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return newValidationError(typeErr.Field, "expected "+typeErr.Type.String())
	}
	return newValidationError("body", "invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

// enumError is the validationError for an unrecognised enumeration value.
func enumError(field string, allowed ...string) *validationError {
	return newValidationError(field, "must be one of: "+strings.Join(allowed, ", "))
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondError maps err onto the error taxonomy and writes the response.
// Unexpected errors are logged and reported without internals.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": ve.Fields})
	case errors.Is(err, errNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errConflict):
		apiError(c, http.StatusBadRequest, errConflict.Error())
	case errors.Is(err, errTokenExpired), errors.Is(err, errTokenInvalid), errors.Is(err, errBadCredentials):
		apiError(c, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		apiError(c, http.StatusInternalServerError, "internal server error")
	}
}
