package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLogger_FormatAndLevel(t *testing.T) {
	// Given: A logger that drops anything below Warn
	var buf bytes.Buffer
	l := NewLeveledLogger(&buf, LevelWarn)

	// When: Messages of every level are logged
	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("posted after shutdown", F("pool", "p1"), F("queued", 3))
	l.Error("task panicked", F("worker", 0))

	// Then: Only Warn and Error are written, with key=value fields
	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("low-level messages were written:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] posted after shutdown pool=p1 queued=3") {
		t.Errorf("warn line missing or malformed:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] task panicked worker=0") {
		t.Errorf("error line missing or malformed:\n%s", out)
	}
}

func TestLevel_String(t *testing.T) {
	if LevelInfo.String() != "INFO" || Level(9).String() != "UNKNOWN" {
		t.Errorf("unexpected level names: %s %s", LevelInfo, Level(9))
	}
}
