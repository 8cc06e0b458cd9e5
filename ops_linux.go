//go:build linux

package uio

import (
	"syscall"

	"github.com/brickingsoft/uio/pkg/ring"
	"golang.org/x/sys/unix"
)

// Builders construct one submission entry each, register a slot for it
// and hand it to the driver. The package-level forms locate the driver
// through the ambient register; they fail with ErrNoDriver outside a
// With scope.

func (d *Driver) Nop() (*Op, error) {
	prep := &ring.Prep{}
	prep.Nop()
	return d.submit(prep)
}

func (d *Driver) Open(path string, flags int, mode uint32) (*Op, error) {
	return d.OpenAt(unix.AT_FDCWD, path, flags, mode)
}

func (d *Driver) OpenAt(dfd int, path string, flags int, mode uint32) (*Op, error) {
	prep := &ring.Prep{}
	prep.Openat(dfd, path, flags, mode)
	return d.submit(prep)
}

func (d *Driver) CloseFd(fd int) (*Op, error) {
	prep := &ring.Prep{}
	prep.Close(fd)
	return d.submit(prep)
}

func (d *Driver) Read(fd int, b []byte, offset uint64) (*Op, error) {
	prep := &ring.Prep{}
	prep.Read(fd, b, offset)
	return d.submit(prep)
}

func (d *Driver) Write(fd int, b []byte, offset uint64) (*Op, error) {
	prep := &ring.Prep{}
	prep.Write(fd, b, offset)
	return d.submit(prep)
}

func (d *Driver) Accept(fd int) (*Op, error) {
	prep := &ring.Prep{}
	prep.Accept(fd)
	return d.submit(prep)
}

func (d *Driver) Connect(fd int, addr *syscall.RawSockaddrAny, addrLen int) (*Op, error) {
	prep := &ring.Prep{}
	prep.Connect(fd, addr, addrLen)
	return d.submit(prep)
}

func (d *Driver) Send(fd int, b []byte) (*Op, error) {
	prep := &ring.Prep{}
	prep.Send(fd, b)
	return d.submit(prep)
}

func (d *Driver) Recv(fd int, b []byte) (*Op, error) {
	prep := &ring.Prep{}
	prep.Recv(fd, b)
	return d.submit(prep)
}

func (d *Driver) Unlink(path string) (*Op, error) {
	prep := &ring.Prep{}
	prep.Unlinkat(unix.AT_FDCWD, path, 0)
	return d.submit(prep)
}

func (d *Driver) Fsync(fd int) (*Op, error) {
	prep := &ring.Prep{}
	prep.Fsync(fd, 0)
	return d.submit(prep)
}

func (d *Driver) Socket(domain int, sotype int, proto int) (*Op, error) {
	prep := &ring.Prep{}
	prep.Socket(domain, sotype, proto)
	return d.submit(prep)
}

func ambient() (*Driver, error) {
	d, ok := Current()
	if !ok {
		return nil, ErrNoDriver
	}
	return d, nil
}

func Nop() (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Nop()
}

func Open(path string, flags int, mode uint32) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Open(path, flags, mode)
}

func CloseFd(fd int) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.CloseFd(fd)
}

func Read(fd int, b []byte, offset uint64) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Read(fd, b, offset)
}

func Write(fd int, b []byte, offset uint64) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Write(fd, b, offset)
}

func Accept(fd int) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Accept(fd)
}

func Connect(fd int, addr *syscall.RawSockaddrAny, addrLen int) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Connect(fd, addr, addrLen)
}

func Send(fd int, b []byte) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Send(fd, b)
}

func Recv(fd int, b []byte) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Recv(fd, b)
}

func Unlink(path string) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Unlink(path)
}

func Fsync(fd int) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Fsync(fd)
}

func Socket(domain int, sotype int, proto int) (*Op, error) {
	d, err := ambient()
	if err != nil {
		return nil, err
	}
	return d.Socket(domain, sotype, proto)
}
