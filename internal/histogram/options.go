package histogram

// DefaultBufferSize is a sensible write-back buffer capacity for WithBuffer.
const DefaultBufferSize = 4096

// Registry receives a histogram once when it is constructed and once when
// it is closed. Name collisions are the registry's business.
type Registry interface {
	Register(h Histogram)
	Unregister(h Histogram)
}

type options struct {
	path     string
	bufSize  int
	registry Registry
}

// Option configures a histogram at construction.
type Option func(*options)

// WithPath sets the directory path of the histogram.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithBuffer makes Fill stage up to n samples before writing them to the
// bins. n <= 0 disables buffering.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.bufSize = n
	}
}

// WithRegistry makes the histogram register itself with r.
func WithRegistry(r Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
