//go:build linux

package kernel

import "testing"

func TestParseRelease(t *testing.T) {
	cases := []struct {
		release string
		want    Version
		fails   bool
	}{
		{release: "6.8.0-45-generic", want: Version{Major: 6, Minor: 8, Patch: 0, Flavor: "-45-generic"}},
		{release: "5.15.167", want: Version{Major: 5, Minor: 15, Patch: 167}},
		{release: "6.1", want: Version{Major: 6, Minor: 1}},
		{release: "5.10-rc1", want: Version{Major: 5, Minor: 10, Flavor: "-rc1"}},
		{release: "banana", fails: true},
	}
	for _, c := range cases {
		v, err := parseRelease(c.release)
		if c.fails {
			if err == nil {
				t.Error("parse", c.release, "expected error")
			}
			continue
		}
		if err != nil {
			t.Error("parse", c.release, "failed:", err)
			continue
		}
		if v != c.want {
			t.Error("parse", c.release, "got", v, "want", c.want)
		}
	}
}

func TestGet(t *testing.T) {
	v, err := Get()
	if err != nil {
		t.Fatal(err)
	}
	t.Log(v)
}
