package ring

import (
	"math"
	"syscall"
)

// CancelToken is the reserved completion identifier carried by cancel
// requests. It never maps to a tracked operation: completions tagged with
// it are acknowledged and dropped by the driver.
const CancelToken = uint64(math.MaxUint64)

// Resultify translates a raw completion code following the kernel
// convention: a non-negative value is the result, a negative value is a
// negated errno.
func Resultify(res int32) (int, error) {
	if res < 0 {
		return 0, syscall.Errno(-res)
	}
	return int(res), nil
}
