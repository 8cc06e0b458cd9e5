package ring_test

import (
	"syscall"
	"testing"

	"github.com/brickingsoft/uio/pkg/ring"
)

func TestResultify(t *testing.T) {
	n, err := ring.Resultify(5)
	if n != 5 || err != nil {
		t.Error("resultify(5) got", n, err)
	}
	n, err = ring.Resultify(0)
	if n != 0 || err != nil {
		t.Error("resultify(0) got", n, err)
	}
	n, err = ring.Resultify(-2)
	if n != 0 {
		t.Error("resultify(-2) got value", n)
	}
	if err != syscall.ENOENT {
		t.Error("resultify(-2) got", err, "want ENOENT")
	}
}
