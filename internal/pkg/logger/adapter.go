package logger

import (
	"io"
	"log/slog"

	"bridge_gateway/internal/app/port"
)

// slogAdapter implements port.Logger on top of the package-level functions.
type slogAdapter struct{}

// NewSlogAdapter returns a port.Logger backed by the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, args...) }

// instanceAdapter wraps a specific *slog.Logger.
type instanceAdapter struct {
	l *slog.Logger
}

// New returns a port.Logger writing through l.
func New(l *slog.Logger) port.Logger {
	return &instanceAdapter{l: l}
}

// Nop returns a port.Logger that discards everything.
func Nop() port.Logger {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (a *instanceAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *instanceAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *instanceAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *instanceAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
