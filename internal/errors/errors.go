// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrIncompleteRecord = errors.New("incomplete catalyst record")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrDataNotFound     = errors.New("data not found")
	ErrRateLimited      = errors.New("rate limited")
	ErrConnectionFailed = errors.New("connection failed")
	ErrTimeout          = errors.New("operation timed out")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDatabaseError    = errors.New("database error")
)

// IncompleteRecordError reports a catalyst record missing a field that the
// applicable rule set requires. It wraps ErrIncompleteRecord so callers can
// match with errors.Is.
type IncompleteRecordError struct {
	Ticker string
	Field  string
	Reason string
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("incomplete record [%s]: %s: %s", e.Ticker, e.Field, e.Reason)
}

func (e *IncompleteRecordError) Unwrap() error {
	return ErrIncompleteRecord
}

// NewIncompleteRecordError creates a new IncompleteRecordError.
func NewIncompleteRecordError(ticker, field, reason string) *IncompleteRecordError {
	return &IncompleteRecordError{
		Ticker: ticker,
		Field:  field,
		Reason: reason,
	}
}

// QuoteError represents an error from the market data provider.
type QuoteError struct {
	Symbol  string
	Message string
	Err     error
}

func (e *QuoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quote error [%s]: %s: %v", e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("quote error [%s]: %s", e.Symbol, e.Message)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(symbol, message string, err error) *QuoteError {
	return &QuoteError{
		Symbol:  symbol,
		Message: message,
		Err:     err,
	}
}

// ImportError represents an error while loading the catalyst dataset.
type ImportError struct {
	Source string
	Row    int
	Err    error
}

func (e *ImportError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("import error [%s] row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("import error [%s]: %v", e.Source, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(source string, row int, err error) *ImportError {
	return &ImportError{
		Source: source,
		Row:    row,
		Err:    err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
