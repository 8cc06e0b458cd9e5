//go:build linux

package ring

import (
	"syscall"
	"testing"
	"unsafe"

	"github.com/pawelgaczynski/giouring"
)

func TestPrepUserData(t *testing.T) {
	p := &Prep{}
	p.Read(3, make([]byte, 8), 0)
	p.SetUserData(42)
	if p.UserData() != 42 {
		t.Error("user data got", p.UserData())
	}
}

func TestPrepOpenatPath(t *testing.T) {
	p := &Prep{}
	p.Openat(-100, "/tmp/x", syscall.O_RDONLY, 0)
	if len(p.path) != len("/tmp/x")+1 || p.path[len(p.path)-1] != 0 {
		t.Error("openat path must be NUL terminated, got", p.path)
	}
}

func TestPrepAcceptAddr(t *testing.T) {
	p := &Prep{}
	p.Accept(7)
	addr, addrLen := p.Addr()
	if addr == nil || addrLen != syscall.SizeofSockaddrAny {
		t.Error("accept addr buffer not prepared:", addr, addrLen)
	}
}

func TestPrepConnectEntry(t *testing.T) {
	raw := &syscall.RawSockaddrAny{}
	p := &Prep{}
	p.Connect(9, raw, syscall.SizeofSockaddrInet4)
	p.SetUserData(7)
	sqe := &giouring.SubmissionQueueEntry{}
	p.prepare(sqe)
	if sqe.OpCode != giouring.OpConnect {
		t.Error("opcode got", sqe.OpCode)
	}
	if sqe.Fd != 9 {
		t.Error("fd got", sqe.Fd)
	}
	if sqe.Addr != uint64(uintptr(unsafe.Pointer(raw))) {
		t.Error("entry does not point at the sockaddr buffer")
	}
	if sqe.Off != syscall.SizeofSockaddrInet4 {
		t.Error("addr len got", sqe.Off)
	}
	if sqe.UserData != 7 {
		t.Error("user data got", sqe.UserData)
	}
}

func TestPrepAcceptEntry(t *testing.T) {
	p := &Prep{}
	p.Accept(5)
	sqe := &giouring.SubmissionQueueEntry{}
	p.prepare(sqe)
	if sqe.OpCode != giouring.OpAccept {
		t.Error("opcode got", sqe.OpCode)
	}
	if sqe.Addr != uint64(uintptr(unsafe.Pointer(p.addr))) {
		t.Error("entry does not point at the peer addr buffer")
	}
	if sqe.Off != uint64(uintptr(unsafe.Pointer(&p.addrLen))) {
		t.Error("entry does not point at the addr len")
	}
}

func TestPrepSendRecvEntries(t *testing.T) {
	b := make([]byte, 16)
	bp := uint64(uintptr(unsafe.Pointer(unsafe.SliceData(b))))

	p := &Prep{}
	p.Send(3, b)
	sqe := &giouring.SubmissionQueueEntry{}
	p.prepare(sqe)
	if sqe.OpCode != giouring.OpSend || sqe.Fd != 3 || sqe.Len != 16 || sqe.Addr != bp {
		t.Error("send entry got", sqe.OpCode, sqe.Fd, sqe.Len)
	}

	p = &Prep{}
	p.Recv(4, b)
	sqe = &giouring.SubmissionQueueEntry{}
	p.prepare(sqe)
	if sqe.OpCode != giouring.OpRecv || sqe.Fd != 4 || sqe.Len != 16 || sqe.Addr != bp {
		t.Error("recv entry got", sqe.OpCode, sqe.Fd, sqe.Len)
	}
}

func TestPrepSocketEntry(t *testing.T) {
	p := &Prep{}
	p.Socket(syscall.AF_INET, syscall.SOCK_STREAM, 0)
	sqe := &giouring.SubmissionQueueEntry{}
	p.prepare(sqe)
	if sqe.OpCode != giouring.OpSocket {
		t.Error("opcode got", sqe.OpCode)
	}
	if sqe.Fd != syscall.AF_INET || sqe.Off != syscall.SOCK_STREAM || sqe.Len != 0 {
		t.Error("socket entry got", sqe.Fd, sqe.Off, sqe.Len)
	}
}
