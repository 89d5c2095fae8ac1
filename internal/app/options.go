package app

import (
	"time"

	"github.com/avolkov/paddock/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithYear sets the season to aggregate.
func WithYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.year = year
		}
	}
}

// WithRefreshInterval sets the period of the background refresh.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshEvery = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
