package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// nopHandler discards every record. Enabled reports false so messages are
// never formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// slogLogger adapts a slog.Logger to the renderer's Printf-style logger
type slogLogger struct {
	logger *slog.Logger
}

func (l slogLogger) Printf(format string, args ...interface{}) {
	if !l.logger.Enabled(context.Background(), slog.LevelInfo) {
		return
	}
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// newLogger returns a text logger on w when verbose, otherwise a silent one
func newLogger(verbose bool, w io.Writer) core.Logger {
	if !verbose {
		return slogLogger{logger: slog.New(nopHandler{})}
	}
	return slogLogger{logger: slog.New(slog.NewTextHandler(w, nil))}
}
