//go:build linux

package kernel

import (
	"bytes"
	"strconv"
	"strings"
	"sync"

	"github.com/brickingsoft/errors"
	"golang.org/x/sys/unix"
)

var ErrUname = errors.Define("kernel: uname failed")

var (
	version    Version
	versionErr error
	once       sync.Once
)

func Get() (Version, error) {
	once.Do(func() {
		uts := unix.Utsname{}
		if err := unix.Uname(&uts); err != nil {
			versionErr = errors.From(ErrUname, errors.WithWrap(err))
			return
		}
		release := string(uts.Release[:bytes.IndexByte(uts.Release[:], 0)])
		version, versionErr = parseRelease(release)
	})
	return version, versionErr
}

func parseRelease(release string) (v Version, err error) {
	rest := release
	if v.Major, rest, err = leadingInt(rest); err != nil {
		err = errors.New("kernel: cannot parse release " + release)
		return
	}
	if v.Minor, rest, err = leadingInt(strings.TrimPrefix(rest, ".")); err != nil {
		err = errors.New("kernel: cannot parse release " + release)
		return
	}
	// patch and flavor are optional, e.g. "6.8" or "5.15.0-generic"
	if after, ok := strings.CutPrefix(rest, "."); ok {
		if patch, flavor, perr := leadingInt(after); perr == nil {
			v.Patch = patch
			v.Flavor = flavor
			return
		}
	}
	v.Flavor = rest
	err = nil
	return
}

func leadingInt(s string) (n int, rest string, err error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		err = errors.New("kernel: no digits")
		return
	}
	n, err = strconv.Atoi(s[:i])
	rest = s[i:]
	return
}
