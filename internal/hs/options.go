package hs

import (
	"flexPlan/internal/logging"
	"flexPlan/internal/metrics"
)

// Option настраивает Solver.
type Option func(*Solver)

// WithLogger задаёт логгер. По умолчанию используется NopLogger.
func WithLogger(l logging.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics задаёт сборщик метрик. По умолчанию метрики отбрасываются.
func WithMetrics(m metrics.Collector) Option {
	return func(s *Solver) {
		if m != nil {
			s.metrics = m
		}
	}
}
