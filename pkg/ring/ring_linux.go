//go:build linux

package ring

import (
	"runtime"
	"syscall"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/uio/pkg/kernel"
	"github.com/pawelgaczynski/giouring"
)

const DefaultEntries = 256

// New sets up an io_uring instance with a fixed queue depth. The kernel
// must be 5.1 or newer.
func New(entries int) (*Ring, error) {
	if entries <= 0 {
		entries = DefaultEntries
	}
	entries = roundupPow2(entries)
	if ok, err := kernel.Require(5, 1); err != nil {
		return nil, errors.From(ErrSetup, errors.WithWrap(err))
	} else if !ok {
		return nil, ErrUnsupported
	}
	r, err := giouring.CreateRing(uint32(entries))
	if err != nil {
		return nil, errors.From(ErrSetup, errors.WithWrap(err))
	}
	return &Ring{
		ring:    r,
		entries: entries,
		cqes:    make([]*giouring.CompletionQueueEvent, entries),
	}, nil
}

type Ring struct {
	ring    *giouring.Ring
	entries int
	cqes    []*giouring.CompletionQueueEvent
}

func (r *Ring) Entries() int {
	return r.entries
}

// Push copies one prepared entry into the kernel submission ring and
// reports false when the ring is full. The memory the prep references
// must stay reachable until the matching completion has been drained,
// the kernel writes into it until then.
func (r *Ring) Push(p *Prep) bool {
	sqe := r.ring.GetSQE()
	if sqe == nil {
		return false
	}
	p.prepare(sqe)
	runtime.KeepAlive(p)
	return true
}

func (r *Ring) Submit() (int, error) {
	n, err := r.ring.Submit()
	return int(n), err
}

// SubmitAndWait blocks in the kernel until at least waitNr completions
// are available.
func (r *Ring) SubmitAndWait(waitNr int) (int, error) {
	n, err := r.ring.SubmitAndWait(uint32(waitNr))
	return int(n), err
}

// WaitTimeout waits for at least waitNr completions, giving up after d.
// Timeout surfaces as syscall.ETIME.
func (r *Ring) WaitTimeout(waitNr int, d time.Duration) error {
	ts := syscall.NsecToTimespec(d.Nanoseconds())
	_, err := r.ring.WaitCQEs(uint32(waitNr), &ts, nil)
	return err
}

// Drain consumes every visible completion, invoking fn for each, and
// returns the number consumed.
func (r *Ring) Drain(fn func(userData uint64, res int32, flags uint32)) int {
	drained := 0
	for {
		n := r.ring.PeekBatchCQE(r.cqes)
		if n == 0 {
			break
		}
		for i := uint32(0); i < n; i++ {
			cqe := r.cqes[i]
			r.cqes[i] = nil
			fn(cqe.UserData, cqe.Res, cqe.Flags)
			drained++
		}
		r.ring.CQAdvance(n)
	}
	return drained
}

// Fd is the ring's pollable descriptor. An external event loop can
// register it for readability to find out when completions are pending.
func (r *Ring) Fd() int {
	return r.ring.RingFd()
}

func (r *Ring) Close() error {
	r.ring.QueueExit()
	return nil
}

func roundupPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
