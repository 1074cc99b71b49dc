package logger

import "go.uber.org/zap"

// Compiler stages, logged as the "stage" field so a job's lines can be
// filtered by phase.
const (
	StageParse    = "parse"
	StageImport   = "import"
	StageResolve  = "resolve"
	StageGenerate = "generate"
	StageWrite    = "write"
	StageWatch    = "watch"
)

// WithStage tags l with a compiler stage.
func WithStage(l *zap.SugaredLogger, stage string) *zap.SugaredLogger {
	return l.With(FieldStage, stage)
}

// StageInfow logs an info line on the global logger tagged with stage.
func StageInfow(stage, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldStage, stage}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// StageDebugw is StageInfow at debug level.
func StageDebugw(stage, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldStage, stage}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}
