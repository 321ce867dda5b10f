package fix

// Option tunes ApplyFile.
type Option func(*options)

type options struct {
	backupSuffix string
	skipHash     bool
}

// WithBackup keeps the original bytes next to the file under
// path+suffix before it is replaced.
func WithBackup(suffix string) Option {
	return func(o *options) {
		o.backupSuffix = suffix
	}
}

// SkipHashCheck applies the plan without comparing fingerprints. The
// insertion positions are still validated against the current text.
func SkipHashCheck() Option {
	return func(o *options) {
		o.skipHash = true
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
