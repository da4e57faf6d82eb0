package timing

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func fakeClock(t *testing.T, step time.Duration) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * step)
	}
	t.Cleanup(func() { now = time.Now })
}

func newTestLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
}

func TestTrack_LogsElapsed(t *testing.T) {
	fakeClock(t, 250*time.Millisecond)
	var buf bytes.Buffer

	stop := Track(newTestLogger(&buf), "save")
	stop()

	out := buf.String()
	if !strings.Contains(out, "op=save") {
		t.Errorf("expected op field, got %q", out)
	}
	if !strings.Contains(out, "elapsed=250ms") {
		t.Errorf("expected elapsed=250ms, got %q", out)
	}
}

func TestTrack_NilLogger(t *testing.T) {
	Track(nil, "noop")()
}

func TestMeasure_ReturnsError(t *testing.T) {
	var buf bytes.Buffer
	want := errors.New("boom")

	err := Measure(newTestLogger(&buf), "load", func() error { return want })

	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if !strings.Contains(buf.String(), "operation failed") {
		t.Errorf("expected failure line, got %q", buf.String())
	}
}
