//go:build linux

package uio

import (
	"syscall"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/uio/pkg/ring"
	"github.com/eapache/queue"
	"github.com/pawelgaczynski/giouring"
)

// kernelRing is what the driver needs from the ring, narrowed so the
// submit and complete protocols can be exercised against a scripted
// implementation.
type kernelRing interface {
	Push(p *ring.Prep) bool
	Submit() (int, error)
	SubmitAndWait(waitNr int) (int, error)
	WaitTimeout(waitNr int, d time.Duration) error
	Drain(fn func(userData uint64, res int32, flags uint32)) int
	Fd() int
	Close() error
}

// inner is the exclusive owner of the ring, the operation table and the
// pending overflow queue. Access is serialized by a runtime-checked
// borrow: the driver is confined to one thread of control, so an
// observed double borrow is a logic error, not a race.
type inner struct {
	ring     kernelRing
	ops      operations
	pending  *queue.Queue
	borrowed bool
}

func (in *inner) borrow() *inner {
	if in.borrowed {
		panic("uio: driver state borrowed reentrantly")
	}
	in.borrowed = true
	return in
}

func (in *inner) release() {
	in.borrowed = false
}

// flushCompletions drains the visible completion queue into the
// operation table and returns the number of completion events consumed.
// Events tagged with the reserved cancel token are counted but never
// routed to a slot.
func (in *inner) flushCompletions() int {
	return in.ring.Drain(func(userData uint64, res int32, flags uint32) {
		if userData == ring.CancelToken {
			// completion of a cancel request; the canceled operation
			// still posts its own completion later.
			return
		}
		n, err := ring.Resultify(res)
		more := flags&giouring.CQEFMore != 0
		in.ops.complete(userData, n, err, flags, more)
	})
}

// flushSubmissions moves pending entries into the kernel submission
// ring, preserving order. The kernel rejects an over-full submit with
// EBUSY instead of blocking; that is not a failure, it means in-flight
// work must drain first, so completions are flushed and the submit
// retried. When nothing drains, the ring is saturated and the caller is
// expected to block or poll externally.
func (in *inner) flushSubmissions() error {
	for in.pending.Length() > 0 {
		for in.pending.Length() > 0 {
			prep := in.pending.Peek().(*ring.Prep)
			if !in.ring.Push(prep) {
				// ring full; the entry stays at the front of the queue
				break
			}
			in.pending.Remove()
		}
		for {
			if _, err := in.ring.Submit(); err != nil {
				if errors.Is(err, syscall.EBUSY) {
					if in.flushCompletions() == 0 {
						return nil
					}
					continue
				}
				return err
			}
			break
		}
	}
	return nil
}

// submit registers a slot for prep, queues the entry and flushes. On a
// flush error the entry may already be with the kernel, so the slot is
// marked ignored rather than removed; its completion reaps it.
func (in *inner) submit(prep *ring.Prep) (uint64, error) {
	key := in.ops.insert(prep)
	prep.SetUserData(key)
	in.pending.Add(prep)
	if err := in.flushSubmissions(); err != nil {
		in.ops.get(key).ignore()
		return 0, err
	}
	return key, nil
}

// Driver owns one io_uring instance and tracks every operation in
// flight on it.
type Driver struct {
	inner *inner
}

func New(options ...Option) (*Driver, error) {
	opts := Options{}
	for _, opt := range options {
		if err := opt(&opts); err != nil {
			return nil, err
		}
	}
	r, err := ring.New(opts.Entries)
	if err != nil {
		return nil, err
	}
	return newDriver(r), nil
}

func newDriver(r kernelRing) *Driver {
	return &Driver{
		inner: &inner{
			ring:    r,
			pending: queue.New(),
		},
	}
}

// FlushCompletions drains available completions without blocking and
// returns how many were consumed.
func (d *Driver) FlushCompletions() int {
	in := d.inner.borrow()
	defer in.release()
	return in.flushCompletions()
}

// FlushSubmissions pushes pending entries to the kernel without
// blocking.
func (d *Driver) FlushSubmissions() error {
	in := d.inner.borrow()
	defer in.release()
	return in.flushSubmissions()
}

// Wait blocks in the kernel until at least one completion is available.
// It is the only blocking call in the driver.
func (d *Driver) Wait() (int, error) {
	in := d.inner.borrow()
	defer in.release()
	return in.ring.SubmitAndWait(1)
}

// OperationCount is the number of live operation slots.
func (d *Driver) OperationCount() int {
	in := d.inner.borrow()
	defer in.release()
	return in.ops.size()
}

// Fd exposes the ring's pollable descriptor so an external event loop
// can multiplex this driver with other event sources.
func (d *Driver) Fd() int {
	in := d.inner.borrow()
	defer in.release()
	return in.ring.Fd()
}

// Close tears the driver down. While operations remain in flight it
// blocks draining completions; wait errors are swallowed and retried,
// since teardown must not abort while the kernel can still write into
// operation-owned memory. It returns only once the operation table is
// empty.
func (d *Driver) Close() error {
	for d.OperationCount() > 0 {
		_, _ = d.Wait()
		d.FlushCompletions()
	}
	in := d.inner.borrow()
	defer in.release()
	if in.ops.size() != 0 {
		panic("uio: operations leaked across teardown")
	}
	return in.ring.Close()
}
