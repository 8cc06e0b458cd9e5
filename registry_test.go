package uio

import (
	"syscall"
	"testing"
)

func TestRegistryKeysUniqueAmongLive(t *testing.T) {
	tbl := &operations{}
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		key := tbl.insert(nil)
		if seen[key] {
			t.Fatal("duplicate live key", key)
		}
		seen[key] = true
	}
	if tbl.size() != 100 {
		t.Error("size got", tbl.size())
	}
}

func TestRegistryStaleKeyMisses(t *testing.T) {
	tbl := &operations{}
	a := tbl.insert(nil)
	tbl.remove(a)
	b := tbl.insert(nil)
	if uint32(b) != uint32(a) {
		t.Error("freed slot index should be reused, got", b, "after", a)
	}
	if b == a {
		t.Error("reused slot must carry a new generation")
	}
	if tbl.get(a) != nil {
		t.Error("stale key must not resolve")
	}
	if tbl.get(b) == nil {
		t.Error("live key must resolve")
	}
}

func TestRegistryReuseOnlyAfterRemoval(t *testing.T) {
	tbl := &operations{}
	a := tbl.insert(nil)
	b := tbl.insert(nil)
	if removed := tbl.complete(a, 3, nil, 0, false); removed {
		t.Fatal("completion without observer retrieval must not remove")
	}
	c := tbl.insert(nil)
	if c == a || c == b {
		t.Fatal("live key handed out twice")
	}
	tbl.remove(a)
	tbl.remove(b)
	tbl.remove(c)
	if tbl.size() != 0 {
		t.Error("size got", tbl.size())
	}
}

func TestRegistryIgnoredReapedByCompletion(t *testing.T) {
	tbl := &operations{}
	key := tbl.insert(nil)
	tbl.get(key).ignore()
	if tbl.get(key) == nil {
		t.Fatal("ignored slot must stay tracked until its completion")
	}
	if !tbl.complete(key, 0, syscall.ECANCELED, 0, false) {
		t.Fatal("completion must reap the ignored slot")
	}
	if tbl.get(key) != nil {
		t.Error("reaped slot must not resolve")
	}
}

func TestRegistryUntrackedCompletionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("completion for an untracked key must panic")
		}
	}()
	tbl := &operations{}
	tbl.complete(opKey(9, 9), 0, nil, 0, false)
}
