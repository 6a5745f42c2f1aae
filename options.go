package motionblur

// Option configures a ReconstructionFilter during creation.
//
// Example:
//
//	// Default configuration
//	f, err := motionblur.NewReconstructionFilter(motionblur.DefaultProgram())
//
//	// Pin the pass dispatcher to four workers
//	f, err := motionblur.NewReconstructionFilter(prog, motionblur.WithWorkers(4))
type Option func(*filterOptions)

// filterOptions holds optional configuration for filter creation.
type filterOptions struct {
	workers       int
	poolRetention int
	budgetBytes   int
}

// defaultFilterOptions returns the default filter options.
func defaultFilterOptions() filterOptions {
	return filterOptions{
		workers:       0, // GOMAXPROCS
		poolRetention: 8,
		budgetBytes:   0, // unlimited
	}
}

// WithWorkers sets the number of goroutines used to run pipeline passes.
// Zero or negative selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *filterOptions) {
		o.workers = n
	}
}

// WithPoolRetention sets how many intermediate buffers of each shape the
// filter's pool keeps between invocations. Zero means unlimited retention.
func WithPoolRetention(n int) Option {
	return func(o *filterOptions) {
		o.poolRetention = n
	}
}

// WithBufferBudget caps the total bytes of intermediate buffers a single
// invocation may hold. When an invocation would exceed the budget,
// ProcessImage fails with an error wrapping ErrBufferBudget and returns
// every buffer it had already taken. Zero (the default) means unlimited.
func WithBufferBudget(bytes int) Option {
	return func(o *filterOptions) {
		o.budgetBytes = bytes
	}
}
