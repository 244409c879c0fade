package termfilter

import "runtime"

type options struct {
	logger         *Logger
	maxConcurrency int
}

func defaultOptions() options {
	return options{
		logger:         NoopLogger(),
		maxConcurrency: runtime.GOMAXPROCS(0),
	}
}

// Option configures multi-segment evaluation behavior.
//
// Per-segment evaluation itself is synchronous and option-free; options only
// affect how EvaluateAll fans out across segments.
type Option func(*options)

// WithLogger configures the logger used for evaluation diagnostics.
//
// If nil is passed, logging stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxConcurrency bounds the number of segments evaluated in parallel by
// EvaluateAll. Values <= 0 reset to GOMAXPROCS.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.maxConcurrency = n
	}
}
