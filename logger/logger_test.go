package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{
			name:       "JSON output mode",
			jsonOutput: true,
		},
		{
			name:       "Console output mode",
			jsonOutput: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global logger
			Logger = nil
			JSONOutput = false

			if err := Initialize(tt.jsonOutput); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}

			if Logger == nil {
				t.Error("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}

			// Cleanup
			if Logger != nil {
				Logger.Sync()
				Logger = nil
			}
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{3, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		if got := VerbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestShouldLogDebug(t *testing.T) {
	if ShouldLogDebug(1) {
		t.Error("ShouldLogDebug(1) = true, want false")
	}
	if !ShouldLogDebug(2) {
		t.Error("ShouldLogDebug(2) = false, want true")
	}
}

func TestPackageLevelFunctionsNilSafe(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// None of these should panic with a nil logger
	Info("test")
	Infof("test %d", 1)
	Infow("test", "key", "value")
	Warn("test")
	Error("test")
	Debug("test")
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	if fields := FieldsFromContext(ctx); len(fields) != 0 {
		t.Errorf("empty context produced %d fields", len(fields))
	}

	ctx = WithChartID(ctx, "US5WA50M")
	ctx = WithLoadID(ctx, "load-1")
	ctx = WithComponent(ctx, "pipeline.loader")

	fields := FieldsFromContext(ctx)
	if len(fields) != 6 {
		t.Fatalf("expected 6 field elements, got %d", len(fields))
	}
	if fields[0] != FieldChartID || fields[1] != "US5WA50M" {
		t.Errorf("unexpected chart id fields: %v", fields[:2])
	}
}

func TestLoggerFromContext(t *testing.T) {
	Logger = zap.NewNop().Sugar()

	// No context values: same logger comes back
	if got := LoggerFromContext(context.Background()); got != Logger {
		t.Error("LoggerFromContext without fields should return the global logger")
	}

	// With values: a derived logger
	ctx := WithChartID(context.Background(), "US5WA50M")
	if got := LoggerFromContext(ctx); got == Logger {
		t.Error("LoggerFromContext with fields should return a child logger")
	}
}

func TestComponentLogger(t *testing.T) {
	Logger = zap.NewNop().Sugar()
	if ComponentLogger("fetch") == nil {
		t.Error("ComponentLogger returned nil")
	}
}
