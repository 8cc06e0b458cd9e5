package uio

import (
	"github.com/brickingsoft/uio/pkg/ring"
)

// operations is a generational table of in-flight operation lifecycles.
// A key packs the slot index with a per-slot generation, so a key can
// never alias a later occupant of the same slot. The table must be empty
// before the driver's ring is torn down: a live entry means the kernel
// may still write into memory that entry pins.
type operations struct {
	slots []opSlot
	free  []uint32
	live  int
}

type opSlot struct {
	gen  uint32
	used bool
	lc   lifecycle
}

func opKey(index uint32, gen uint32) uint64 {
	return uint64(gen)<<32 | uint64(index)
}

// insert allocates a slot in the Submitted state and returns its key.
// pin anchors the operation-owned memory for the slot's lifetime.
func (t *operations) insert(pin any) uint64 {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, opSlot{})
		index = uint32(len(t.slots) - 1)
	}
	slot := &t.slots[index]
	slot.used = true
	slot.lc = lifecycle{state: stateSubmitted, pin: pin}
	key := opKey(index, slot.gen)
	if key == ring.CancelToken {
		panic("uio: operation key collides with the reserved cancel token")
	}
	t.live++
	return key
}

// get returns the lifecycle for key, or nil once the slot has been
// removed. A nil return means "no longer tracked", not an error.
func (t *operations) get(key uint64) *lifecycle {
	index := uint32(key)
	if index >= uint32(len(t.slots)) {
		return nil
	}
	slot := &t.slots[index]
	if !slot.used || slot.gen != uint32(key>>32) {
		return nil
	}
	return &slot.lc
}

func (t *operations) remove(key uint64) {
	index := uint32(key)
	if index >= uint32(len(t.slots)) {
		return
	}
	slot := &t.slots[index]
	if !slot.used || slot.gen != uint32(key>>32) {
		return
	}
	slot.used = false
	slot.gen++
	slot.lc = lifecycle{}
	t.free = append(t.free, index)
	t.live--
}

// complete routes one translated completion to its slot and removes the
// slot when the lifecycle reports it terminal.
func (t *operations) complete(key uint64, n int, err error, flags uint32, more bool) bool {
	lc := t.get(key)
	if lc == nil {
		panic("uio: completion for an untracked operation")
	}
	if lc.complete(n, err, flags, more) {
		t.remove(key)
		return true
	}
	return false
}

func (t *operations) size() int {
	return t.live
}
