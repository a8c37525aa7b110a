package flatdata

// DefaultFlushThreshold is the buffered size in bytes above which streaming
// containers flush to storage.
const DefaultFlushThreshold = 32 << 20

type options struct {
	flushThreshold int
	logger         *Logger
	metrics        MetricsCollector
}

// Option configures streaming containers.
type Option func(*options)

// WithFlushThreshold sets the number of buffered bytes above which
// ExternalVector and MultiVector flush on the next Grow.
//
// Values <= 0 select DefaultFlushThreshold.
func WithFlushThreshold(bytes int) Option {
	return func(o *options) {
		if bytes <= 0 {
			bytes = DefaultFlushThreshold
		}
		o.flushThreshold = bytes
	}
}

// WithLogger sets the logger for flush and close events.
//
// Without this option containers log through the logger of the storage
// their resource belongs to. If nil is passed, logging is discarded.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector for flush and close events.
//
// Without this option containers use the storage's collector when it
// implements MetricsCollector. If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		flushThreshold: DefaultFlushThreshold,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
