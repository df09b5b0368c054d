package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeMalformedRow    = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeRequiredField   = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidFormat   = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeInvalidLength   = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeInvalidValue    = "ERR_IMPORT_INVALID_VALUE"
	ErrCodeDuplicateInFile = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeDuplicateInDB   = "ERR_IMPORT_DUPLICATE_IN_DB"
	ErrCodeRejected        = "ERR_IMPORT_REJECTED"
)

var (
	// ErrEmptyFile is returned when the upload has no content
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned for non UTF-8 content
	ErrInvalidEncoding = errors.New("CSV file must be UTF-8 encoded")

	// ErrMissingHeader is returned when the first row holds no column names
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrTooManyRows is returned when the file exceeds the configured row limit
	ErrTooManyRows = errors.New("CSV file has too many rows")
)

// RowError describes a rejected row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection keeps the first maxErrors row errors and counts the rest
type ErrorCollection struct {
	errors    []RowError
	maxErrors int
	total     int
}

// NewErrorCollection creates a collection capped at maxErrors
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records an error
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	if ec.errors == nil {
		return []RowError{}
	}
	return ec.errors
}

// Total counts every error added, kept or not
func (ec *ErrorCollection) Total() int {
	return ec.total
}

// IsTruncated reports whether errors were dropped
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.total > ec.maxErrors
}
