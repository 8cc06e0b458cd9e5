package uio

import "github.com/brickingsoft/errors"

type Options struct {
	Entries int
}

type Option func(options *Options) (err error)

// WithEntries
// sets the queue depth of the kernel ring. Rounded up to a power of two,
// defaults to 256.
func WithEntries(entries int) Option {
	return func(options *Options) error {
		if entries <= 0 {
			return errors.New("uio: entries must be positive")
		}
		options.Entries = entries
		return nil
	}
}
