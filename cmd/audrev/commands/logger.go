// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ik5/audrev/internal/config"
)

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// initLogger builds the process logger from cfg. A log file that cannot be
// opened falls back to stderr. The returned closer is nil unless a file was
// opened.
func initLogger(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, io.Closer) {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var (
		out    io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = stderr
	default:
		f, err := openLog(cfg.Output)
		if err != nil {
			fmt.Fprintf(stderr, "cannot open log file %s: %v, logging to stderr\n", cfg.Output, err)
			out = stderr
		} else {
			out, closer = f, f
		}
	}

	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closer
}
