package tspline

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultIsSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger returned nil")
	}
	if l.Enabled(nil, slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	Logger().Debug("probe", slog.Int("value", 7))
	if !strings.Contains(buf.String(), "probe") {
		t.Errorf("log output missing record: %q", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(nil, slog.LevelError) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}

func TestIndexErrorMessage(t *testing.T) {
	err := &IndexError{Kind: "face", ID: 42}
	if got := err.Error(); !strings.Contains(got, "face") || !strings.Contains(got, "42") {
		t.Errorf("Error() = %q", got)
	}
}

func TestASTSErrorMessage(t *testing.T) {
	err := &ASTSError{Pairs: []JunctionPair{{H: 3, V: 6}}}
	if got := err.Error(); !strings.Contains(got, "v3") || !strings.Contains(got, "v6") {
		t.Errorf("Error() = %q", got)
	}
}
