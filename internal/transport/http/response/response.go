// Package response renders the standard JSON envelope. Every handler reply
// goes through OK or Fail; nothing leaves the boundary unformatted.
package response

import (
	"github.com/gin-gonic/gin"

	"ai-code-reviewer/internal/apperr"
)

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type APIResponse struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Fail converts any error into the envelope, mapping unknown errors to a
// generic 500 so internal detail never leaks.
func Fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.Status, APIResponse{
		Success: false,
		Error: &ErrorPayload{
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		},
	})
}
