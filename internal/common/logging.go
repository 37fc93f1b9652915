// Package common provides logging and presentation helpers shared by the
// portal, the MCP surface and dartctl.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const logTimeFormat = "2006-01-02T15:04:05Z07:00"

// LogOptions selects the arbor writers for a logger.
type LogOptions struct {
	Level      string
	Outputs    []string // "console", "file"
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// Logger wraps arbor.ILogger so packages share one logging type.
type Logger struct {
	arbor.ILogger
}

// discardWriter keeps silent loggers from falling through to globally
// registered writers.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// textWriter renders arbor's JSON events as "LEVEL message key=value" lines.
type textWriter struct {
	out   io.Writer
	level log.Level
}

func (w *textWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return w.out.Write(p)
	}
	if evt.Level < w.level {
		return len(p), nil
	}

	var b strings.Builder
	b.WriteString(levelName(evt.Level))
	b.WriteByte(' ')
	b.WriteString(evt.Message)

	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, evt.Fields[k])
	}
	if evt.Error != "" {
		fmt.Fprintf(&b, " error=%q", evt.Error)
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func levelName(l log.Level) string {
	switch {
	case l >= log.ErrorLevel:
		return "ERROR"
	case l >= log.WarnLevel:
		return "WARN"
	case l >= log.InfoLevel:
		return "INFO"
	case l >= log.DebugLevel:
		return "DEBUG"
	}
	return "TRACE"
}

func (w *textWriter) WithLevel(level log.Level) writers.IWriter {
	w.level = level
	return w
}

func (w *textWriter) GetFilePath() string { return "" }
func (w *textWriter) Close() error        { return nil }

// NewLogger creates a console and file logger at the given level.
func NewLogger(level string) *Logger {
	return NewLoggerFromOptions(LogOptions{Level: level})
}

// NewLoggerFromOptions builds an arbor logger with console (stderr), rotating
// file and memory writers.
func NewLoggerFromOptions(opts LogOptions) *Logger {
	level := opts.Level
	if level == "" {
		level = "info"
	}
	outputs := opts.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console", "file"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: logTimeFormat,
			})
		case "file":
			path := opts.FilePath
			if path == "" {
				path = "logs/dart-portal.log"
			}
			maxSize := int64(opts.MaxSizeMB) * 1024 * 1024
			if maxSize <= 0 {
				maxSize = 10 * 1024 * 1024
			}
			maxBackups := opts.MaxBackups
			if maxBackups <= 0 {
				maxBackups = 5
			}
			l = l.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   path,
				MaxSize:    maxSize,
				MaxBackups: maxBackups,
				TimeFormat: logTimeFormat,
			})
		}
	}

	l = l.WithMemoryWriter(models.WriterConfiguration{
		Type: models.LogWriterTypeMemory,
	}).WithLevelFromString(level)

	return &Logger{ILogger: l}
}

// NewLoggerWithOutput creates a logger that writes plain text lines to w.
// The writer is registered as arbor's console writer, so only one such logger
// should be active per process (tests, dartctl).
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	arbor.RegisterWriter(arbor.WRITER_CONSOLE, &textWriter{out: w, level: log.TraceLevel})

	l := arbor.NewLogger().
		WithMemoryWriter(models.WriterConfiguration{Type: models.LogWriterTypeMemory}).
		WithLevelFromString(level)
	return &Logger{ILogger: l}
}

// NewSilentLogger creates a logger that discards everything.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})}
}

// WithCorrelationId returns a logger tagging every event with id.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
