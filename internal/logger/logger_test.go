package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		verbose  bool
		level    zapcore.Level
		encoding string
	}{
		{"Default", false, false, zap.InfoLevel, "json"},
		{"Debug", true, false, zap.DebugLevel, "json"},
		{"Verbose", false, true, zap.InfoLevel, "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := buildConfig(tt.debug, tt.verbose, true)
			assert.Equal(t, tt.level, cfg.Level.Level())
			assert.Equal(t, tt.encoding, cfg.Encoding)
			assert.True(t, cfg.DisableStacktrace)
			assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
		})
	}
}

func TestBuildConfigColor(t *testing.T) {
	encode := func(colored bool) string {
		cfg := buildConfig(false, true, colored)
		buf, err := zapcore.NewConsoleEncoder(cfg.EncoderConfig).
			EncodeEntry(zapcore.Entry{Level: zap.WarnLevel, Message: "cue too long"}, nil)
		if err != nil {
			t.Fatalf("encode entry: %v", err)
		}
		return buf.String()
	}

	plain := encode(false)
	assert.Contains(t, plain, "WARN")
	assert.NotContains(t, plain, "\x1b[")

	assert.Contains(t, encode(true), "\x1b[")
}

func TestNewLogger(t *testing.T) {
	l := NewLogger(true)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l = NewLoggerWithVerbose(false, true)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))

	l = NewLoggerWithOptions(true, true, false)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestZapLoggerWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapLogger(zap.New(core)).With(zap.String("job", "abc"))
	l.Info("processing cue", zap.Int("index", 3))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "abc", fields["job"])
		assert.EqualValues(t, 3, fields["index"])
	}

	assert.NotPanics(t, func() { NewZapLogger(nil).With(zap.String("job", "x")).Warn("ignored") })
}
