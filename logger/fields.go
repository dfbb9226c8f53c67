package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across jpoet.
const (
	// Components
	FieldComponent = "component"
	FieldCommand   = "command"

	// Sources being rendered
	FieldPackage    = "package"
	FieldType       = "type"
	FieldFile       = "file"
	FieldDescriptor = "descriptor"
	FieldSink       = "sink"
	FieldURL        = "url"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Errors
	FieldError       = "error"
	FieldDeleteError = "delete_error"

	// Timing
	FieldDurationMS = "duration_ms"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Filer struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func New() *Filer {
//	    return &Filer{logger: logger.ComponentLogger("filer")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
