package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	// Fatal at startup
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// Per-symbol errors; the scan continues with the next symbol
	ErrorCategoryNetwork      ErrorCategory = "NETWORK"
	ErrorCategoryTimeout      ErrorCategory = "TIMEOUT"
	ErrorCategoryRateLimit    ErrorCategory = "RATE_LIMIT"
	ErrorCategoryExchange     ErrorCategory = "EXCHANGE"
	ErrorCategoryParse        ErrorCategory = "PARSE"
	ErrorCategoryNotification ErrorCategory = "NOTIFY"
	ErrorCategoryTemporary    ErrorCategory = "TEMPORARY"
)

// BotError represents a categorized error with context
type BotError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
	Retryable  bool
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *BotError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether the failed operation may succeed on the next cycle
func (e *BotError) IsRetryable() bool {
	return e.Retryable
}

// IsFatal returns whether this error should stop the bot
func (e *BotError) IsFatal() bool {
	return e.Category == ErrorCategoryConfiguration
}

// NewBotError creates a new categorized bot error
func NewBotError(category ErrorCategory, component, operation, message string) *BotError {
	return &BotError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
		Retryable: isRetryableCategory(category),
	}
}

// WrapError wraps an existing error with bot error context
func WrapError(err error, category ErrorCategory, component, operation string) *BotError {
	if err == nil {
		return nil
	}

	return &BotError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
		Retryable:  isRetryableCategory(category),
	}
}

// WithContext adds context information to the error
func (e *BotError) WithContext(key string, value interface{}) *BotError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func isRetryableCategory(category ErrorCategory) bool {
	switch category {
	case ErrorCategoryConfiguration, ErrorCategoryParse:
		return false
	default:
		return true
	}
}

// CategorizeError attempts to categorize a generic error. Errors that already
// carry a category anywhere in their chain keep it.
func CategorizeError(err error, component, operation string) *BotError {
	if err == nil {
		return nil
	}

	var botErr *BotError
	if stderrors.As(err, &botErr) {
		return botErr
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return WrapError(err, ErrorCategoryTimeout, component, operation)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return WrapError(err, ErrorCategoryTimeout, component, operation)
		}
		return WrapError(err, ErrorCategoryNetwork, component, operation)
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") {
		return WrapError(err, ErrorCategoryTimeout, component, operation)
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dns") || strings.Contains(errMsg, "dial") {
		return WrapError(err, ErrorCategoryNetwork, component, operation)
	}

	if strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "too many requests") {
		return WrapError(err, ErrorCategoryRateLimit, component, operation)
	}

	if strings.Contains(errMsg, "decode") || strings.Contains(errMsg, "parse") {
		return WrapError(err, ErrorCategoryParse, component, operation)
	}

	return WrapError(err, ErrorCategoryTemporary, component, operation)
}

// CategoryOf returns the category of err, categorizing it first if needed.
// A nil error has no category.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	return CategorizeError(err, "", "").Category
}

// Common error constructors
func NewNetworkError(component, operation string, err error) *BotError {
	return WrapError(err, ErrorCategoryNetwork, component, operation)
}

func NewRateLimitError(component, operation, message string) *BotError {
	return NewBotError(ErrorCategoryRateLimit, component, operation, message)
}

func NewExchangeError(component, operation, message string) *BotError {
	return NewBotError(ErrorCategoryExchange, component, operation, message)
}

func NewParseError(component, operation string, err error) *BotError {
	return WrapError(err, ErrorCategoryParse, component, operation)
}

func NewNotificationError(component, operation string, err error) *BotError {
	return WrapError(err, ErrorCategoryNotification, component, operation)
}

func NewConfigurationError(component, operation, message string) *BotError {
	return NewBotError(ErrorCategoryConfiguration, component, operation, message)
}
