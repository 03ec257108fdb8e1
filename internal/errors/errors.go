package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType classifies application errors for handling and logging.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypePermission ErrorType = "permission"
)

// AppError carries a classified error with structured context.
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
	Context  map[string]interface{}
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds a key/value pair to the error context.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns the error as structured logging fields.
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

func caller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates a classified error.
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(),
		Context: make(map[string]interface{}),
	}
}

// Wrap classifies an existing error.
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(),
		Context:  make(map[string]interface{}),
	}
}

// Handler logs errors according to their classification.
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypePermission:
		h.logger.WarnContext(ctx, "Request error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	}
}

// Predefined errors.
var (
	ErrUserNotFound   = New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found")
	ErrRuleNotFound   = New(ErrorTypeNotFound, "RULE_NOT_FOUND", "Adjustment rule not found")
	ErrEntryNotFound  = New(ErrorTypeNotFound, "ENTRY_NOT_FOUND", "Glucose entry not found")
	ErrPresetNotFound = New(ErrorTypeNotFound, "PRESET_NOT_FOUND", "Insulin preset not found")
	ErrUnauthorized   = New(ErrorTypePermission, "UNAUTHORIZED", "Unauthorized access")
)

// NewValidationError reports a request-level validation failure.
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

// NewFieldValidationError reports a validation failure with the field
// that caused it, for field-level surfacing in API responses.
func NewFieldValidationError(field, reason string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", reason).WithContext("field", field)
}

// NewDatabaseError wraps a storage failure.
func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

// NewExternalAPIError wraps a collaborator failure.
func NewExternalAPIError(err error, api string) *AppError {
	return Wrap(err, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api)).
		WithContext("api", api)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}

// Field extracts the offending field from a validation error, if any.
func Field(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if f, ok := appErr.Context["field"].(string); ok {
			return f
		}
	}
	return ""
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
