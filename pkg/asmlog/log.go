// Package asmlog builds the structured logger the assembler's diagnostic
// sink and CLI report through: a text handler to stderr, fanned out to an
// optional JSON handler over a log file, using the same slog-multi fanout
// idiom the rest of the ecosystem reaches for.
package asmlog

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
)

// Options configures the logger New builds.
type Options struct {
	// Level is the minimum level logged.
	Level slog.Level
	// FilePath, if non-empty, also logs JSON records to this file.
	FilePath string
	// Color forces (or disables) the coloring Colorize applies; the
	// stderr text handler itself is never colorized. When nil, color is
	// auto-detected from stderr's TTY-ness.
	Color *bool
}

// New builds a *slog.Logger per opts. Returns the logger and a closer the
// caller must invoke (e.g. via defer) to release any opened log file.
func New(opts Options) (*slog.Logger, func(), error) {
	enableColor := opts.Color == nil && isTerminal(os.Stderr) || (opts.Color != nil && *opts.Color)
	color.NoColor = !enableColor

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.Level}),
	}
	closer := func() {}

	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
		closer = func() { f.Close() }
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// colorForLevel picks the color Colorize applies: red for error level and
// above, yellow for every lower level.
func colorForLevel(level slog.Level) *color.Color {
	if level >= slog.LevelError {
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.FgYellow)
}

// Colorize renders text in the color associated with level, honoring the
// package-wide color.NoColor toggle New sets.
func Colorize(level slog.Level, text string) string {
	return colorForLevel(level).Sprint(text)
}
