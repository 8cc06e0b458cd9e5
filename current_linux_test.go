//go:build linux

package uio

import "testing"

func TestWithPublishesAndRestores(t *testing.T) {
	d := newDriver(&fakeRing{cap: 4})
	if _, ok := Current(); ok {
		t.Fatal("no ambient driver expected outside a scope")
	}
	d.With(func() {
		got, ok := Current()
		if !ok || got != d {
			t.Error("ambient driver not visible inside the scope")
		}
		nested := newDriver(&fakeRing{cap: 4})
		nested.With(func() {
			if got, _ := Current(); got != nested {
				t.Error("most recently installed driver must be visible")
			}
		})
		if got, _ := Current(); got != d {
			t.Error("previous driver must be restored after a nested scope")
		}
	})
	if _, ok := Current(); ok {
		t.Error("ambient driver leaked past the scope")
	}
}

func TestWithRestoresOnPanic(t *testing.T) {
	d := newDriver(&fakeRing{cap: 4})
	func() {
		defer func() {
			_ = recover()
		}()
		d.With(func() {
			panic("boom")
		})
	}()
	if _, ok := Current(); ok {
		t.Error("ambient driver leaked past a panicking scope")
	}
}

func TestAmbientBuilders(t *testing.T) {
	if _, err := Nop(); !IsNoDriver(err) {
		t.Fatal("builder outside a scope got", err)
	}
	f := &fakeRing{cap: 4}
	d := newDriver(f)
	d.With(func() {
		op, err := Nop()
		if err != nil {
			t.Fatal(err)
		}
		if len(f.inflight) != 1 {
			t.Error("entry was not submitted")
		}
		op.Discard()
		f.completeNext(0)
		d.FlushCompletions()
	})
	if d.OperationCount() != 0 {
		t.Error("registry not empty")
	}
}
