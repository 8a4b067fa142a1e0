package imgdec

// ServiceOption configures a Service during creation.
//
// Example:
//
//	// Default BMP and PNG decoders
//	svc := imgdec.NewService()
//
//	// Custom decoder set (dependency injection)
//	svc := imgdec.NewService(imgdec.WithRegistry(reg))
type ServiceOption func(*serviceOptions)

// serviceOptions holds optional configuration for Service creation.
type serviceOptions struct {
	registry *Registry
	poolSize int
}

// defaultServiceOptions returns the default service options.
func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		registry: nil, // DefaultRegistry() if nil
		poolSize: 2,
	}
}

// WithRegistry sets the decoders used by the Service.
// Formats missing from the registry fail with ErrUnsupportedFormat.
func WithRegistry(r *Registry) ServiceOption {
	return func(o *serviceOptions) {
		o.registry = r
	}
}

// WithPoolSize sets how many spare buffers of each size the Service keeps
// for reuse. 0 or less means unlimited.
func WithPoolSize(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.poolSize = n
	}
}

// Options specifies per-call decoding parameters.
type Options struct {
	// Flip reverses the row order of the result after blending, producing
	// bottom-up rows for consumers with a bottom-left texture origin.
	Flip bool
}

// resolveOptions returns the first non-nil option set, or the zero value.
func resolveOptions(opts []*Options) Options {
	if len(opts) > 0 && opts[0] != nil {
		return *opts[0]
	}
	return Options{}
}
