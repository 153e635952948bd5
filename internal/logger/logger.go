// Package logger builds the zerolog logger shared by every command.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const simpleTimeFormat = "02-01-2006 15:04:05"

// Options selects where and how a command logs.
type Options struct {
	Env     string
	Level   string
	Command string // serve, contact, mock-api
	Version string

	// Out replaces the environment's default destination. The terminal
	// form passes io.Discard so log lines never land on top of the UI.
	Out io.Writer
}

// New builds the logger for one command. Development writes readable lines to
// stderr, everything else writes JSON to stdout. Every entry carries the
// command name so the site and the API stub can share a log sink.
func New(opts Options) (zerolog.Logger, error) {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	zerolog.TimeFieldFormat = simpleTimeFormat
	zerolog.DurationFieldUnit = time.Millisecond

	out := opts.Out
	switch {
	case out != nil:
	case IsDevelopment(opts.Env):
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: simpleTimeFormat}
	default:
		out = os.Stdout
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Command != "" {
		ctx = ctx.Str("cmd", opts.Command)
	}
	if opts.Version != "" && !IsDevelopment(opts.Env) {
		ctx = ctx.Str("version", opts.Version)
	}
	return ctx.Logger(), nil
}

// Component derives a child logger tagged with the subsystem name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// IsDevelopment reports whether env names a development environment.
func IsDevelopment(env string) bool {
	return strings.EqualFold(env, "development") || strings.EqualFold(env, "dev")
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}
