package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

func instance() *slog.Logger {
	once.Do(func() {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	})
	return log
}

// Init replaces the default handler, used by server startup to apply config.
func Init(level slog.Level) {
	instance()
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func Info(msg string, args ...any) {
	instance().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	instance().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	instance().Error(msg, normalize(args)...)
}

func Debug(msg string, args ...any) {
	instance().Debug(msg, args...)
}

// normalize lets callers pass a bare error as the only argument,
// e.g. logger.Error("MeetingRepository:Create:Error:", err).
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
	}
	return args
}
