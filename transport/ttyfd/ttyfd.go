//go:build linux

// Package ttyfd is a Linux xpc.Transport over a raw, non-blocking tty file
// descriptor, built on github.com/daedaluz/goserial's ioctl-based Port —
// the fd/ioctl style Daedaluz-goserial's port_linux.go uses for its own
// Open/Read/Write, adapted here to TinyXPC's non-blocking ReadInto/
// WriteFrom contract instead of goserial's blocking io.Reader/io.Writer
// pair.
package ttyfd

import (
	"errors"
	"syscall"

	goserial "github.com/daedaluz/goserial"

	"tinyxpc.dev/xpc"
)

// Port is a non-blocking tty transport. The underlying file descriptor is
// opened O_NONBLOCK so Read/Write never sleep; EAGAIN is translated to
// xpc.ErrWouldBlock with n == 0, matching every other Transport in this
// module.
type Port struct {
	p *goserial.Port
}

var _ xpc.Transport = (*Port)(nil)

// Open opens path as a non-blocking serial port. baud and the frame shape
// are left at goserial's defaults; Port does not expose the underlying
// goserial port, so they cannot be changed through it.
func Open(path string) (*Port, error) {
	opts := goserial.NewOptions()
	opts.OpenMode |= syscall.O_NONBLOCK
	p, err := goserial.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return &Port{p: p}, nil
}

func (t *Port) ReadInto(dst []byte, offset, max int) ([]byte, int, error) {
	buf := dst
	if buf == nil {
		buf = make([]byte, max)
	}
	n, err := t.p.Read(buf[:max])
	if n < 0 {
		n = 0
	}
	if errors.Is(err, syscall.EAGAIN) {
		return buf, n, xpc.ErrWouldBlock
	}
	if err != nil {
		return buf, n, err
	}
	return buf, n, nil
}

func (t *Port) WriteFrom(buf []byte, offset, max int) (int, error) {
	n, err := t.p.Write(buf[offset : offset+max])
	if n < 0 {
		n = 0
	}
	if errors.Is(err, syscall.EAGAIN) {
		return n, xpc.ErrWouldBlock
	}
	return n, err
}

// Discard is a no-op: a raw tty fd has no internal buffering to release
// beyond the kernel's own line discipline buffer.
func (t *Port) Discard(dir xpc.Direction, n int) {}

// Notify is a no-op: Port is polled directly rather than wired to an event
// loop. A production deployment would arm/disarm an epoll interest set
// here instead.
func (t *Port) Notify(dir xpc.Direction, enable bool) {}

// Close releases the underlying file descriptor.
func (t *Port) Close() error {
	return t.p.Close()
}
