// Package logging provides the slog plumbing shared by the server and CLI.
//
// Loggers are dependency-injected, never global: each component receives a
// logger at construction time and scopes it with its own attributes. Handler
// configuration (format, level, destination) belongs only in main. The parse
// hot path never logs.
package logging

import (
	"context"
	"log/slog"
)

// discardHandler drops all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that discards all output.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns the provided logger if non-nil, otherwise a discard
// logger. Standard pattern for optional logger parameters.
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}
