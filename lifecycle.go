package uio

type lifecycleState uint8

const (
	stateSubmitted lifecycleState = iota
	stateWaiting
	stateCompleted
	stateIgnored
)

// lifecycle tracks one operation from the moment its entry is handed to
// the kernel until its result is consumed or its slot is reaped.
//
// The pin field anchors whatever memory the submitted entry references;
// the kernel may write into that memory at any time until it posts the
// operation's completion, so the pin must not be dropped before the
// lifecycle is removed.
type lifecycle struct {
	state lifecycleState
	waker func()
	n     int
	err   error
	flags uint32
	pin   any
}

// park registers observer interest. It reports false when a result is
// already buffered, in which case the observer should consume it rather
// than wait. A nil waker expresses interest without registering a
// callback and leaves any registered waker in place.
func (lc *lifecycle) park(waker func()) bool {
	if lc.state == stateCompleted {
		return false
	}
	lc.state = stateWaiting
	if waker != nil {
		lc.waker = waker
	}
	return true
}

// ignore marks the observer gone. The slot stays until the kernel posts
// the operation's completion; the result is never surfaced.
func (lc *lifecycle) ignore() {
	lc.state = stateIgnored
	lc.waker = nil
}

// complete feeds one translated completion into the lifecycle and
// reports whether the slot is now terminal and must be removed.
//
// A completion flagged more belongs to a multishot entry: further
// completions will follow, so the slot is never terminal on it.
func (lc *lifecycle) complete(n int, err error, flags uint32, more bool) bool {
	lc.n, lc.err, lc.flags = n, err, flags
	switch lc.state {
	case stateSubmitted, stateCompleted:
		lc.state = stateCompleted
		return false
	case stateWaiting:
		lc.state = stateCompleted
		if waker := lc.waker; waker != nil {
			lc.waker = nil
			waker()
		}
		return false
	case stateIgnored:
		return !more
	default:
		return false
	}
}

func (lc *lifecycle) result() (int, uint32, error) {
	return lc.n, lc.flags, lc.err
}
