package bootstrap

import (
	"time"

	"github.com/kbukum/accessmatrix/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// Option adjusts NewApp.
type Option func(*settings)

type settings struct {
	log      *logger.Logger
	graceful time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{graceful: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger makes the app log through l instead of initializing the global
// logger from the Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds the stop hooks. Non-positive values keep the
// default.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.graceful = d
		}
	}
}
