//go:build linux

package sys

import (
	"os"
	"syscall"
	"unsafe"
)

// Poller multiplexes pollable descriptors, such as an io_uring fd,
// together with an eventfd used to interrupt a blocked wait.
type Poller struct {
	fd  int
	wfd int
}

func OpenPoller() (*Poller, error) {
	epfd, err := syscall.EpollCreate1(0)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	r0, _, e0 := syscall.Syscall(syscall.SYS_EVENTFD2, 0, 0, 0)
	if e0 != 0 {
		_ = syscall.Close(epfd)
		return nil, os.NewSyscallError("eventfd2", e0)
	}
	p := &Poller{fd: epfd, wfd: int(r0)}
	if err = p.AddRead(p.wfd); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Poller) AddRead(fd int) error {
	err := syscall.EpollCtl(p.fd, syscall.EPOLL_CTL_ADD, fd, &syscall.EpollEvent{
		Fd:     int32(fd),
		Events: syscall.EPOLLIN,
	})
	return os.NewSyscallError("epoll_ctl", err)
}

func (p *Poller) Detach(fd int) error {
	err := syscall.EpollCtl(p.fd, syscall.EPOLL_CTL_DEL, fd, &syscall.EpollEvent{
		Fd:     int32(fd),
		Events: syscall.EPOLLIN,
	})
	return os.NewSyscallError("epoll_ctl", err)
}

// Wakeup interrupts a concurrent Wait.
func (p *Poller) Wakeup() error {
	var one uint64 = 1
	_, err := syscall.Write(p.wfd, (*(*[8]byte)(unsafe.Pointer(&one)))[:])
	return err
}

// Wait blocks until at least one registered descriptor is ready or the
// timeout elapses, invoking iter for each ready descriptor. Wakeup
// events are absorbed and not passed to iter.
func (p *Poller) Wait(timeoutMs int, iter func(fd int, events uint32)) (int, error) {
	events := make([]syscall.EpollEvent, 64)
	for {
		n, err := syscall.EpollWait(p.fd, events, timeoutMs)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return 0, os.NewSyscallError("epoll_wait", err)
		}
		ready := 0
		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == p.wfd {
				var drain [8]byte
				_, _ = syscall.Read(p.wfd, drain[:])
				continue
			}
			iter(fd, events[i].Events)
			ready++
		}
		return ready, nil
	}
}

func (p *Poller) Close() error {
	if err := syscall.Close(p.wfd); err != nil {
		return err
	}
	return syscall.Close(p.fd)
}
