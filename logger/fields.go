package logger

import (
	"context"

	"go.uber.org/zap"
)

// Field names shared by every package that logs.
const (
	FieldJobID     = "job_id"
	FieldComponent = "component"
	FieldStage     = "stage"

	FieldFile      = "file"
	FieldImport    = "import"
	FieldOutput    = "output"
	FieldInterface = "interface"
	FieldUnit      = "unit"
	FieldTemplate  = "template"

	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"

	FieldError = "error"
	FieldLine  = "line"
)

type contextKey string

const (
	jobIDKey     contextKey = "logger_job_id"
	componentKey contextKey = "logger_component"
)

// WithJobID adds a compile job ID to the context for logging
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey, jobID)
}

func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context as key-value pairs.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if jobID, ok := ctx.Value(jobIDKey).(string); ok && jobID != "" {
		fields = append(fields, FieldJobID, jobID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	return fields
}

// LoggerFromContext returns the global logger carrying the context's fields.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for one package or subsystem.
//
//	type Session struct {
//	    log *zap.SugaredLogger
//	}
//
//	s := &Session{log: logger.ComponentLogger("parser")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger adds fields to parent for a sub-operation.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
