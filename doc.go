// Package uio is a single-threaded io_uring reactor core. It owns one
// kernel ring, tracks every operation in flight on it, buffers
// submissions the kernel ring cannot take yet, and drains completions
// back to whoever awaits them.
//
// The driver is confined to one thread of control. Concurrency is many
// operation lifecycles interleaved inside one driver, not parallel
// mutation: there are no locks, and a reentrant borrow of the driver
// state is treated as a logic error.
//
// Operation builders locate the active driver through the ambient
// register installed by Driver.With, so call paths do not need to
// thread the handle explicitly.
//
// The pinned giouring release maps the ring through go:linkname
// references into syscall, which toolchains from go1.23 on reject at
// link time. Build binaries and tests with
//
//	go build -ldflags=-checklinkname=0
//
// until the dependency moves off those references.
package uio
