// Package logger configures the process-wide slog default: JSON records to
// the console, a rotated file, or both.
package logger

import (
	"io"
	"log/slog"
	"os"

	"longevityhub/internal/config"

	"gopkg.in/lumberjack.v2"
)

func Init(cfg config.LogConfig) {
	h := slog.NewJSONHandler(output(cfg), &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	slog.SetDefault(slog.New(h))
	Info("logger initialized", "level", cfg.Level, "file", cfg.File)
}

// output picks the sink set. With neither console nor file configured,
// stdout keeps the process from logging into the void.
func output(cfg config.LogConfig) io.Writer {
	var sinks []io.Writer
	if cfg.Console {
		sinks = append(sinks, os.Stdout)
	}
	if cfg.File != "" {
		sinks = append(sinks, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		})
	}
	switch len(sinks) {
	case 0:
		return os.Stdout
	case 1:
		return sinks[0]
	default:
		return io.MultiWriter(sinks...)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
