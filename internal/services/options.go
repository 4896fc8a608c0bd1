package services

import (
	"log/slog"
	"time"

	"mindboard/internal/logging"
)

type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
