// Package httperr is the error taxonomy the API surfaces: every failure a
// handler can return maps to one of the constructors below and renders as
// {"message": ..., "errors": [...]}.
package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Error struct {
	Status  int      `json:"-"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func BadRequest(msg string, details ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg, Errors: details}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// Internal hides the underlying cause from the response body.
func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error"}
}

// FromBinding turns a ShouldBindJSON failure into a 400 with one message per
// failed field, so clients see the whole list in a single round trip.
func FromBinding(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
		return BadRequest("Validation error", details...)
	}
	return BadRequest("Invalid request body")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// Respond writes err as JSON and aborts the request. Anything that is not an
// *Error is treated as an unexpected dependency failure: logged server-side,
// surfaced as a generic 500.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		log.Printf("internal error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		apiErr = Internal()
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
