package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when an update or delete matches nothing.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed or missing input. A batch that fails
// validation is rejected as a whole.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Invalid builds a ValidationError from a format string.
func Invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failure reported by the storage collaborator.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError unless it is nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// ExternalKind classifies text-generation failures.
type ExternalKind string

const (
	ExternalConfig  ExternalKind = "config"
	ExternalAuth    ExternalKind = "auth"
	ExternalGeneric ExternalKind = "generic"
)

var externalMessages = map[ExternalKind]string{
	ExternalConfig:  "Kesalahan Konfigurasi: Kunci API Gemini tidak diatur. Mohon periksa variabel lingkungan GEMINI_API_KEY.",
	ExternalAuth:    "Terjadi kesalahan autentikasi dengan API Gemini. Pastikan Kunci API yang digunakan sudah benar, aktif, dan memiliki izin yang sesuai.",
	ExternalGeneric: "Terjadi kesalahan saat mencoba menganalisis data. Silakan coba lagi nanti.",
}

// ExternalServiceError reports a failed call to the text-generation service.
type ExternalServiceError struct {
	Kind ExternalKind
	Err  error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("external service (%s)", e.Kind)
	}
	return fmt.Sprintf("external service (%s): %v", e.Kind, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// UserMessage returns the fixed user-facing message of the failure class.
func (e *ExternalServiceError) UserMessage() string {
	if msg, ok := externalMessages[e.Kind]; ok {
		return msg
	}
	return externalMessages[ExternalGeneric]
}

// ErrSheetsDisabled is returned by Google Sheets operations when no
// spreadsheet is configured.
var ErrSheetsDisabled = errors.New("google sheets integration is not configured")
