package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewHonorsLevel(t *testing.T) {
	logger := New("warn", false)
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn must be enabled at warn level")
	}
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	logger := New("shouting", false)
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("fallback level must be info, not debug")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("fallback level must enable info")
	}
}

func TestNewDevelopmentEnablesDebug(t *testing.T) {
	logger := NewDevelopment()
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger must log debug")
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	if logger == nil || logger.Logger == nil {
		t.Fatal("expected a usable logger")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default logger must not log debug")
	}
}
