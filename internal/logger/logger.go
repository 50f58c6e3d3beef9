// Package logger builds the slog logger behind the shell's diagnostic
// stream: human-readable status lines on stderr, with an optional rotated
// file copy for installations that run the shell from a launcher icon and
// never see a terminal.
package logger

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

type Config struct {
	Level      string `json:"level" mapstructure:"level"` // debug, info, warn, error
	File       string `json:"file" mapstructure:"file"`   // optional rotated copy
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
	Color      bool   `json:"color" mapstructure:"color"`
}

// New builds the diagnostic logger writing to w (normally os.Stderr) and,
// when configured, a rotated file alongside it.
func New(cfg Config, w io.Writer) *slog.Logger {
	out := w
	if cfg.File != "" {
		out = io.MultiWriter(w, &lj.Logger{
			Filename:   filepath.Clean(cfg.File),
			MaxSize:    valOr(cfg.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(cfg.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(cfg.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   cfg.Compress,
		})
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Color {
		return slog.New(NewColorTextHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// ParseLevel maps a config string to a slog level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
