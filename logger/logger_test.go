package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// captureLogger installs a logger writing to a buffer and restores the
// previous global logger when the test ends.
func captureLogger(t *testing.T, jsonOutput bool, verbosity int) *bytes.Buffer {
	t.Helper()
	prev, prevJSON := Logger, JSONOutput
	t.Cleanup(func() {
		Logger, JSONOutput = prev, prevJSON
		SetVerbosity(VerbosityUser)
	})

	var buf bytes.Buffer
	require.NoError(t, InitializeWriter(&buf, jsonOutput, verbosity))
	return &buf
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{"JSON output mode", true},
		{"Console output mode", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLogger(t, tt.jsonOutput, VerbosityInfo)
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
		})
	}
}

func TestVerbosityGatesLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		info      bool
		debug     bool
	}{
		{VerbosityUser, false, false},
		{VerbosityInfo, true, false},
		{VerbosityDebug, true, true},
		{VerbosityTrace, true, true},
	}
	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			buf := captureLogger(t, false, tt.verbosity)
			Infow("info line")
			Debugw("debug line")
			Warnw("warn line")

			out := buf.String()
			assert.Equal(t, tt.info, strings.Contains(out, "info line"))
			assert.Equal(t, tt.debug, strings.Contains(out, "debug line"))
			assert.Contains(t, out, "warn line")
		})
	}
}

func TestSetVerbosityAffectsComponentLoggers(t *testing.T) {
	buf := captureLogger(t, false, VerbosityUser)
	log := ComponentLogger("parser")

	log.Debugw("hidden")
	SetVerbosity(VerbosityDebug)
	log.Debugw("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONOutput(t *testing.T) {
	buf := captureLogger(t, true, VerbosityInfo)
	ComponentLogger("compile").Infow("Wrote unit", FieldFile, "/out/WidgetWrapper.h", FieldUnit, "header")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Wrote unit", entry["msg"])
	assert.Equal(t, "compile", entry["logger"])
	assert.Equal(t, "/out/WidgetWrapper.h", entry[FieldFile])
	assert.Equal(t, "header", entry[FieldUnit])
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(9))
	assert.Equal(t, "Trace (-vvv+)", LevelName(7))
	assert.Equal(t, "Unknown", LevelName(-2))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputErrors))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputWatch))
	assert.False(t, ShouldOutput(VerbosityInfo, OutputImports))
	assert.True(t, ShouldOutput(VerbosityDebug, OutputTiming))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputASTDump))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputTemplates))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))

	assert.Equal(t, "imports", CategoryName(OutputImports))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
	assert.Equal(t, []OutputCategory{OutputResults, OutputErrors, OutputStatus}, EnabledCategories(VerbosityUser))
	assert.Len(t, EnabledCategories(VerbosityTrace), 10)
}

func TestFieldsFromContext(t *testing.T) {
	assert.Empty(t, FieldsFromContext(context.Background()))

	ctx := WithComponent(WithJobID(context.Background(), "job-1"), "batch")
	assert.Equal(t, []interface{}{FieldJobID, "job-1", FieldComponent, "batch"}, FieldsFromContext(ctx))

	buf := captureLogger(t, true, VerbosityInfo)
	LoggerFromContext(ctx).Infow("started")
	assert.Contains(t, buf.String(), `"job_id":"job-1"`)
}

func TestStageLogging(t *testing.T) {
	buf := captureLogger(t, true, VerbosityDebug)
	StageInfow(StageWrite, "Wrote unit")
	StageDebugw(StageImport, "Resolved import")
	WithStage(ComponentLogger("watch"), StageWatch).Infow("Change detected")
	ChildLogger(Logger, FieldCount, 2).Infow("Batch done")

	out := buf.String()
	assert.Contains(t, out, `"stage":"write"`)
	assert.Contains(t, out, `"stage":"import"`)
	assert.Contains(t, out, `"stage":"watch"`)
	assert.Contains(t, out, `"count":2`)
}

func TestNilLoggerIsSafe(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()
	Logger = nil

	assert.NotPanics(t, func() {
		Infow("x")
		Warnw("x")
		Errorw("x")
		Debugw("x")
		StageInfow(StageParse, "x")
		Cleanup()
	})
}
