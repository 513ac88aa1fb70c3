package infra

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a slog.Logger with log rotation support. The log file
// is named after the configured application so multiple services can share
// a logs directory.
func NewLogger(cfg *Config) *slog.Logger {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fallback to stderr if directory creation fails
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFilename(cfg)),
		MaxSize:    10, // Megabytes
		MaxBackups: 3,
		MaxAge:     28, // Days
		Compress:   true,
	}

	// Log to both file and stdout
	writer := io.MultiWriter(os.Stdout, fileLogger)

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Logging.Level)}
	logger := slog.New(slog.NewJSONHandler(writer, opts))

	if cfg.App.Version != "" {
		return logger.With(slog.String("version", cfg.App.Version))
	}
	return logger
}

// logFilename derives the rotated log file name from the app name.
func logFilename(cfg *Config) string {
	name := cfg.App.Name
	if name == "" {
		name = "buda-portfolio"
	}
	return name + ".log"
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
