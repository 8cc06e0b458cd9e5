//go:build linux

package uio

import (
	"context"
	"syscall"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/uio/pkg/ring"
)

// waitTick bounds one blocking stretch inside Await so context
// cancellation is noticed even when no completion arrives.
const waitTick = 50 * time.Millisecond

// Result is one operation's translated outcome.
type Result struct {
	N     int
	Flags uint32
	Err   error
}

// Op is one submitted operation. Exactly one observer may consume its
// result, through Await or TryResult; abandoning it instead goes through
// Discard or Cancel.
type Op struct {
	d    *Driver
	key  uint64
	prep *ring.Prep
}

// Prep returns the submitted entry, which owns the operation's buffers.
func (op *Op) Prep() *ring.Prep {
	return op.prep
}

func (d *Driver) submit(prep *ring.Prep) (*Op, error) {
	in := d.inner.borrow()
	key, err := in.submit(prep)
	in.release()
	if err != nil {
		return nil, err
	}
	return &Op{d: d, key: key, prep: prep}, nil
}

// Await drives the driver until this operation completes, then removes
// its slot and returns the translated result and completion flags.
//
// Cancellation through ctx is cooperative: a cancel entry is pushed for
// the in-flight operation, the slot is left to be reaped by the
// operation's real completion, and ErrUncompleted wrapping ctx.Err is
// returned.
func (op *Op) Await(ctx context.Context) (n int, flags uint32, err error) {
	d := op.d
	for {
		in := d.inner.borrow()
		lc := in.ops.get(op.key)
		if lc == nil {
			in.release()
			return 0, 0, ErrNotTracked
		}
		if !lc.park(nil) {
			n, flags, err = lc.result()
			in.ops.remove(op.key)
			in.release()
			return
		}
		flushErr := in.flushSubmissions()
		in.release()
		if flushErr != nil {
			op.Discard()
			return 0, 0, flushErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			op.Cancel()
			return 0, 0, errors.From(ErrUncompleted, errors.WithWrap(ctxErr))
		}
		if waitErr := d.waitSome(); waitErr != nil {
			return 0, 0, waitErr
		}
		d.FlushCompletions()
	}
}

func (d *Driver) waitSome() error {
	in := d.inner.borrow()
	defer in.release()
	err := in.ring.WaitTimeout(1, waitTick)
	if err == nil ||
		errors.Is(err, syscall.ETIME) || errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
		return nil
	}
	return err
}

// TryResult consumes a buffered result without blocking. ok stays false
// until the operation has completed.
func (op *Op) TryResult() (r Result, ok bool) {
	in := op.d.inner.borrow()
	defer in.release()
	lc := in.ops.get(op.key)
	if lc == nil || lc.state != stateCompleted {
		return
	}
	r.N, r.Flags, r.Err = lc.result()
	in.ops.remove(op.key)
	ok = true
	return
}

// Park registers waker to run when the operation completes, for callers
// multiplexing the driver through its pollable descriptor instead of
// calling Await. It reports false when the result is already buffered.
func (op *Op) Park(waker func()) bool {
	in := op.d.inner.borrow()
	defer in.release()
	lc := in.ops.get(op.key)
	if lc == nil {
		return false
	}
	return lc.park(waker)
}

// Discard abandons the result. The slot stays tracked until the kernel
// posts the operation's completion, then is dropped unseen.
func (op *Op) Discard() {
	in := op.d.inner.borrow()
	defer in.release()
	if lc := in.ops.get(op.key); lc != nil {
		lc.ignore()
	}
}

// Cancel asks the kernel to cancel the in-flight operation and abandons
// its result. The canceled operation still posts its own completion,
// which reaps the slot; the cancel request's own completion carries the
// reserved token and is dropped by the completion flush.
func (op *Op) Cancel() {
	in := op.d.inner.borrow()
	defer in.release()
	lc := in.ops.get(op.key)
	if lc == nil {
		return
	}
	lc.ignore()
	cancel := &ring.Prep{}
	cancel.Cancel(op.key)
	cancel.SetUserData(ring.CancelToken)
	in.pending.Add(cancel)
	_ = in.flushSubmissions()
}
