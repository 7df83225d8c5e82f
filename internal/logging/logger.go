// Package logging provides structured logging for both CLI and TUI modes.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Mode names accepted by NewLogger.
const (
	ModeCLI = "cli"
	ModeTUI = "tui"
)

// Logger wraps zerolog with mode-specific behavior.
type Logger struct {
	zlog zerolog.Logger
	mode string   // "cli" or "tui"
	file *os.File // backing file in TUI mode, nil otherwise
}

// NewLogger creates a new logger for the specified mode.
//
// CLI mode writes human-readable lines to stdout (stderr is reserved for
// progress bars). TUI mode writes to a log file instead, because anything
// printed to the terminal would corrupt the alternate screen; if the file
// cannot be opened the logger silently discards output.
func NewLogger(mode string) *Logger {
	var output io.Writer
	var file *os.File

	if mode == ModeTUI {
		if path, err := LogFilePath(); err == nil {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
				if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
					file = f
				}
			}
		}
		if file != nil {
			output = zerolog.ConsoleWriter{
				Out:        file,
				TimeFormat: "15:04:05",
				NoColor:    true,
			}
		} else {
			output = io.Discard
		}
	} else {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Logger()

	return &Logger{
		zlog: logger,
		mode: mode,
		file: file,
	}
}

// NewDefaultCLILogger creates a default CLI logger.
func NewDefaultCLILogger() *Logger {
	return NewLogger(ModeCLI)
}

// LogFilePath returns the path of the TUI log file.
func LogFilePath() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "romferry", "romferry.log"), nil
}

// Close releases the backing log file, if any. Safe to call on any logger.
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// SetOutput changes the output writer for the logger.
// This is useful for redirecting logs through progress bars.
func (l *Logger) SetOutput(w io.Writer) {
	l.zlog = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    l.mode == ModeTUI,
	}).With().Timestamp().Logger()
}

// File returns the backing log file in TUI mode, nil otherwise.
func (l *Logger) File() *os.File {
	return l.file
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

func init() {
	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Configure global logger
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
}
