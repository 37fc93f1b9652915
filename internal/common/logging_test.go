package common

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewSilentLogger_DoesNotPanic(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	logger.Info().Str("corp_code", "00126380").Msg("discarded")
	logger.Error().Err(nil).Msg("discarded")
	logger.WithCorrelationId("req-1").Warn().Int("items", 3).Msg("discarded")
}

func TestNewLoggerWithOutput_TextLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Info().Str("corp_code", "00126380").Int("items", 11).Msg("statements fetched")
	logger.Debug().Msg("debug line should be filtered")

	// arbor dispatches asynchronously
	time.Sleep(200 * time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "statements fetched") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "corp_code=00126380") {
		t.Errorf("expected corp_code field in output, got %q", out)
	}
	if strings.Contains(out, "debug line should be filtered") {
		t.Error("debug line appeared at info level")
	}
}
