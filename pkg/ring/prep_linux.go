//go:build linux

package ring

import (
	"syscall"
	"unsafe"

	"github.com/pawelgaczynski/giouring"
)

type opKind int

const (
	opNop opKind = iota
	opOpenat
	opClose
	opRead
	opWrite
	opAccept
	opConnect
	opSend
	opRecv
	opUnlinkat
	opFsync
	opSocket
	opCancel
)

// Prep is one not-yet-submitted kernel entry. It owns every pointer the
// filled submission entry will reference, so keeping the Prep reachable
// keeps the operation's memory reachable for the kernel.
type Prep struct {
	kind     opKind
	fd       int
	b        []byte
	path     []byte
	addr     *syscall.RawSockaddrAny
	addrLen  uint32
	offset   uint64
	flags    int
	mode     uint32
	domain   int
	sotype   int
	proto    int
	target   uint64
	userData uint64
}

func (p *Prep) Nop() {
	p.kind = opNop
}

func (p *Prep) Openat(dfd int, path string, flags int, mode uint32) {
	p.kind = opOpenat
	p.fd = dfd
	p.path = append([]byte(path), 0)
	p.flags = flags
	p.mode = mode
}

func (p *Prep) Close(fd int) {
	p.kind = opClose
	p.fd = fd
}

func (p *Prep) Read(fd int, b []byte, offset uint64) {
	p.kind = opRead
	p.fd = fd
	p.b = b
	p.offset = offset
}

func (p *Prep) Write(fd int, b []byte, offset uint64) {
	p.kind = opWrite
	p.fd = fd
	p.b = b
	p.offset = offset
}

func (p *Prep) Accept(fd int) {
	p.kind = opAccept
	p.fd = fd
	p.addr = new(syscall.RawSockaddrAny)
	p.addrLen = uint32(syscall.SizeofSockaddrAny)
}

func (p *Prep) Connect(fd int, addr *syscall.RawSockaddrAny, addrLen int) {
	p.kind = opConnect
	p.fd = fd
	p.addr = addr
	p.addrLen = uint32(addrLen)
}

func (p *Prep) Send(fd int, b []byte) {
	p.kind = opSend
	p.fd = fd
	p.b = b
}

func (p *Prep) Recv(fd int, b []byte) {
	p.kind = opRecv
	p.fd = fd
	p.b = b
}

func (p *Prep) Unlinkat(dfd int, path string, flags int) {
	p.kind = opUnlinkat
	p.fd = dfd
	p.path = append([]byte(path), 0)
	p.flags = flags
}

func (p *Prep) Fsync(fd int, flags uint32) {
	p.kind = opFsync
	p.fd = fd
	p.mode = flags
}

func (p *Prep) Socket(domain int, sotype int, proto int) {
	p.kind = opSocket
	p.domain = domain
	p.sotype = sotype
	p.proto = proto
}

// Cancel requests cancellation of the in-flight entry identified by
// target. The cancel request itself completes under whatever user data is
// set on this Prep, normally CancelToken.
func (p *Prep) Cancel(target uint64) {
	p.kind = opCancel
	p.target = target
}

func (p *Prep) SetUserData(userData uint64) {
	p.userData = userData
}

func (p *Prep) UserData() uint64 {
	return p.userData
}

// Addr returns the peer address buffer the kernel filled for an accept.
func (p *Prep) Addr() (*syscall.RawSockaddrAny, int) {
	return p.addr, int(p.addrLen)
}

func (p *Prep) prepare(sqe *giouring.SubmissionQueueEntry) {
	switch p.kind {
	case opNop:
		sqe.PrepareNop()
	case opOpenat:
		sqe.PrepareOpenat(p.fd, p.path, p.flags, p.mode)
	case opClose:
		sqe.PrepareClose(p.fd)
	case opRead:
		sqe.PrepareRead(p.fd, bufPtr(p.b), uint32(len(p.b)), p.offset)
	case opWrite:
		sqe.PrepareWrite(p.fd, bufPtr(p.b), uint32(len(p.b)), p.offset)
	case opAccept:
		addrPtr := uintptr(unsafe.Pointer(p.addr))
		addrLenPtr := uint64(uintptr(unsafe.Pointer(&p.addrLen)))
		sqe.PrepareAccept(p.fd, addrPtr, addrLenPtr, 0)
	case opConnect:
		prepareConnect(sqe, p.fd, p.addr, p.addrLen)
	case opSend:
		sqe.PrepareSend(p.fd, bufPtr(p.b), uint32(len(p.b)), 0)
	case opRecv:
		sqe.PrepareRecv(p.fd, bufPtr(p.b), uint32(len(p.b)), 0)
	case opUnlinkat:
		sqe.PrepareUnlinkat(p.fd, uintptr(unsafe.Pointer(unsafe.SliceData(p.path))), p.flags)
	case opFsync:
		sqe.PrepareFsync(p.fd, p.mode)
	case opSocket:
		sqe.PrepareSocket(p.domain, p.sotype, p.proto, 0)
	case opCancel:
		sqe.PrepareCancel64(p.target, 0)
	default:
		sqe.PrepareNop()
	}
	sqe.SetData64(p.userData)
}

// prepareConnect fills the entry field by field. The library's typed
// connect helper takes *syscall.Sockaddr, which cannot carry a raw
// sockaddr buffer.
func prepareConnect(sqe *giouring.SubmissionQueueEntry, fd int, addr *syscall.RawSockaddrAny, addrLen uint32) {
	sqe.OpCode = giouring.OpConnect
	sqe.Flags = 0
	sqe.IoPrio = 0
	sqe.Fd = int32(fd)
	sqe.Off = uint64(addrLen)
	sqe.Addr = uint64(uintptr(unsafe.Pointer(addr)))
	sqe.Len = 0
	sqe.OpcodeFlags = 0
	sqe.UserData = 0
	sqe.BufIG = 0
	sqe.Personality = 0
	sqe.SpliceFdIn = 0
}

func bufPtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
