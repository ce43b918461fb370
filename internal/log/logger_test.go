package log

import (
	"bytes"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	// Trace level so all messages are captured
	Initialize(LevelTrace, &buf)

	Info("test info", "key", "value")
	Debug("test debug", "key", "value")
	Trace("test trace", "key", "value")
	Warn("test warn", "key", "value")
	Error("test error", "key", "value")

	if buf.Len() == 0 {
		t.Error("expected log output, got none")
	}
}

func TestLogLevelChecks(t *testing.T) {
	var buf bytes.Buffer

	Initialize(LevelDebug, &buf)

	if !IsInfo() {
		t.Error("expected IsInfo() to be true at debug level")
	}
	if !IsDebug() {
		t.Error("expected IsDebug() to be true at debug level")
	}
	if IsTrace() {
		t.Error("expected IsTrace() to be false at debug level")
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)

	Info("should not appear")
	Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected no output at quiet level, got %q", buf.String())
	}
}
