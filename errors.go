package uio

import "github.com/brickingsoft/errors"

var (
	ErrNoDriver    = errors.Define("uio: no ambient driver installed")
	ErrNotTracked  = errors.Define("uio: operation is no longer tracked")
	ErrUncompleted = errors.Define("uio: uncompleted")
)

func IsNoDriver(err error) bool {
	return errors.Is(err, ErrNoDriver)
}

func IsUncompleted(err error) bool {
	return errors.Is(err, ErrUncompleted)
}
