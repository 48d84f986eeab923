package packagejob

type options struct {
	dryRun        bool
	overwrite     bool
	maxSize       int64
	storePatterns []string
	onProgress    func(percent float64)
}

type Option func(o *options)

func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}

// Replace a package left by a previous run.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) {
		o.overwrite = overwrite
	}
}

// The maximum total size of the input files. Zero means no limit.
func WithMaxSize(maxSize int64) Option {
	return func(o *options) {
		o.maxSize = maxSize
	}
}

// Glob patterns of entries written without compression.
func WithStorePatterns(patterns []string) Option {
	return func(o *options) {
		o.storePatterns = patterns
	}
}

func WithProgress(onProgress func(percent float64)) Option {
	return func(o *options) {
		o.onProgress = onProgress
	}
}
