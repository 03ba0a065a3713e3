package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("warn", false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error should be enabled at warn level")
	}

	dev, err := New("debug", true)
	if err != nil || !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug development logger, got %v", err)
	}

	if _, err := New("loud", false); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
