//go:build linux

package uio

// current is the ambient register: the driver published for the dynamic
// extent of a With call. It is confined to one thread of control by the
// same discipline as the driver itself; activating a second driver on
// top of another is not supported, the most recently installed one wins.
var current *Driver

// With publishes the driver as the ambient one for the duration of fn
// and restores the previous value on every exit path, including panics.
func (d *Driver) With(fn func()) {
	prev := current
	current = d
	defer func() {
		current = prev
	}()
	fn()
}

// Current returns the driver installed by With, if any.
func Current() (*Driver, bool) {
	return current, current != nil
}
