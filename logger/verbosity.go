package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels, counted from repeated -v flags.
//
// They decide WHAT is shown, not only how severe it is. See output.go.
//
//	if logger.ShouldOutput(verbosity, logger.OutputImports) {
//	    pterm.Info.Printfln("import %s", path)
//	}
const (
	VerbosityUser  = 0 // No flags: diagnostics and written files
	VerbosityInfo  = 1 // -v: + per-job progress
	VerbosityDebug = 2 // -vv: + import resolution, timing, config
	VerbosityTrace = 3 // -vvv: + template loading, AST listing
)

// VerbosityToLevel maps -v counts to zap levels.
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityInfo:
		return "Info (-v)"
	case VerbosityDebug:
		return "Debug (-vv)"
	case VerbosityTrace:
		return "Trace (-vvv)"
	default:
		if verbosity > VerbosityTrace {
			return "Trace (-vvv+)"
		}
		return "Unknown"
	}
}
