package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across chartload.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldChartID = "chartId"
	FieldLoadID  = "load_id"

	// Components
	FieldComponent = "component"
	FieldSource    = "source"

	// Pipeline stages
	FieldStage   = "stage"
	FieldAttempt = "attempt"

	// Timing
	FieldDurationMS = "durationMs"
	FieldBackoffMS  = "backoffMs"

	// Errors
	FieldError     = "error"
	FieldErrorKind = "kind"
	FieldRetries   = "retryCount"

	// Integrity
	FieldExpectedHash = "expectedHash"
	FieldComputedHash = "computedHash"
	FieldMatch        = "match"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Files and network
	FieldFile = "file"
	FieldURL  = "url"
	FieldPath = "path"
)

// Context keys for propagating logging context
type contextKey string

const (
	chartIDKey   contextKey = "logger_chart_id"
	loadIDKey    contextKey = "logger_load_id"
	componentKey contextKey = "logger_component"
)

// WithChartID adds a chart id to the context for logging
func WithChartID(ctx context.Context, chartID string) context.Context {
	return context.WithValue(ctx, chartIDKey, chartID)
}

// WithLoadID adds a load id to the context for logging
func WithLoadID(ctx context.Context, loadID string) context.Context {
	return context.WithValue(ctx, loadIDKey, loadID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if chartID, ok := ctx.Value(chartIDKey).(string); ok && chartID != "" {
		fields = append(fields, FieldChartID, chartID)
	}
	if loadID, ok := ctx.Value(loadIDKey).(string); ok && loadID != "" {
		fields = append(fields, FieldLoadID, loadID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
// Use this to get a logger that automatically includes chartId, load_id, etc.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	loader := pipeline.NewLoader(deps, logger.ComponentLogger("pipeline.loader"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
