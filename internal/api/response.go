package api

import (
	"errors"
	"net/http"

	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Data  interface{}    `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorBody     `json:"error,omitempty"`
}

// ErrorBody carries a classified error to the client, with the
// offending field for validation failures.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}, meta map[string]any) {
	c.JSON(status, APIResponse{Data: data, Meta: meta})
}

// respondError maps the error taxonomy onto HTTP statuses. Anything
// unclassified is an internal error; the detail stays in the logs.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	status := http.StatusInternalServerError
	body := ErrorBody{Code: "INTERNAL", Message: "Internal server error"}

	if errors.As(err, &appErr) {
		body.Code = appErr.Code
		body.Message = appErr.Message
		body.Field = apperrors.Field(appErr)
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case apperrors.ErrorTypeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrorTypePermission:
			status = http.StatusUnauthorized
		}
	}

	c.AbortWithStatusJSON(status, APIResponse{Error: &body})
}
