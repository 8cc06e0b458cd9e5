package ring

import "github.com/brickingsoft/errors"

var (
	ErrUnsupported = errors.Define("ring: kernel does not support io_uring")
	ErrSetup       = errors.Define("ring: setup failed")
)

func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
