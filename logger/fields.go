package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across shapegen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Inputs and outputs
	FieldSource   = "source"
	FieldFormat   = "format"
	FieldLanguage = "language"
	FieldFile     = "file"

	// Schema
	FieldRecord    = "record"
	FieldField     = "field"
	FieldSignature = "signature"
	FieldBaseName  = "base_name"
	FieldDepth     = "depth"
	FieldType      = "type"
	FieldNormalize = "normalize"

	// Timing and counts
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	inf := infer.New(infer.Options{Logger: logger.ComponentLogger("infer")})
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
