package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelsAndPrefixes(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters(&out, &errOut)

	l.Info("hello")
	l.Warnf("careful %d", 3)
	l.Error("boom")
	l.Event("PURCHASE", "client-1", "highlighter")

	got := out.String()
	for _, want := range []string{"[CLICKER-INFO] ", "hello", "[CLICKER-WARN] ", "careful 3", "[EVENT:PURCHASE] Actor:client-1 | highlighter"} {
		if !strings.Contains(got, want) {
			t.Fatalf("stdout missing %q in %q", want, got)
		}
	}
	if !strings.Contains(errOut.String(), "[CLICKER-ERROR] ") || !strings.Contains(errOut.String(), "boom") {
		t.Fatalf("stderr missing error line: %q", errOut.String())
	}
	if strings.Contains(out.String(), "boom") {
		t.Fatalf("error leaked to stdout")
	}
}

func TestEveryLevelReportsCallerFile(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters(&out, &errOut)

	l.Info("a")
	l.Infof("b %d", 1)
	l.Warn("c")
	l.Warnf("d %d", 2)
	l.Error("e")
	l.Errorf("f %d", 3)
	l.Event("RESET", "client-1", "g")

	lines := strings.Split(strings.TrimSpace(out.String()+errOut.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines got %d: %q", len(lines), lines)
	}
	for _, line := range lines {
		if !strings.Contains(line, "logger_test.go:") {
			t.Errorf("expected caller file in %q", line)
		}
		if strings.Contains(line, " logger.go:") {
			t.Errorf("line points into the logger itself: %q", line)
		}
	}
}
