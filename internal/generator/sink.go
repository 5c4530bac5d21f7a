package generator

import (
	"context"
	"strings"

	"github.com/layera/stylegen/internal/logging"
	"github.com/layera/stylegen/internal/stylesheet"
)

// logSink forwards validation diagnostics to a structured logger.
type logSink struct {
	ctx    context.Context
	logger logging.Logger
	last   *stylesheet.Diagnostic
}

func (s *logSink) Report(d stylesheet.Diagnostic) {
	s.last = &d
	fields := []interface{}{
		"violation", string(d.Kind),
		"path", strings.Join(d.Path, " > "),
	}
	if d.Property != "" {
		fields = append(fields, "property", d.Property)
	}
	s.logger.Warn(s.ctx, nil, d.Message, fields...)
}

func (s *logSink) err() error {
	if s.last == nil {
		return nil
	}
	return &stylesheet.ShapeError{Diagnostic: *s.last}
}

// NewLogSink returns a stylesheet.Sink that logs each diagnostic as a warning.
func NewLogSink(ctx context.Context, logger logging.Logger) stylesheet.Sink {
	return &logSink{ctx: ctx, logger: logger}
}
