package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// These control how much ambient pipeline detail is shown. They are distinct
// from the pipeline event logger's normal/debug mode, which governs failure
// diagnostics (context entries, traces); -vv enables that mode from the CLI.
const (
	VerbosityUser  = 0 // No flags: load results and errors only
	VerbosityInfo  = 1 // -v: + per-stage progress, catalog and fetch status
	VerbosityDebug = 2 // -vv: + retry scheduling, digests, timing detail
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none)  -> WarnLevel  (errors and warnings only)
//	1 (-v)    -> InfoLevel  (+ informational messages)
//	2+ (-vv)  -> DebugLevel (+ debug messages)
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch verbosity {
	case VerbosityUser:
		return zapcore.WarnLevel
	case VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogDebug returns true for verbosity >= 2 (-vv).
// The CLI uses this to flip the pipeline event logger into debug mode.
func ShouldLogDebug(verbosity int) bool {
	return verbosity >= VerbosityDebug
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
	default:
		if verbosity > VerbosityDebug {
			return "Debug (-vv+)"
		}
		return "Unknown"
	}
}
