// Package serial is a portable (non-Linux-specific) xpc.Transport over
// go.bug.st/serial, the UART library librescoot's usock package declares
// as a dependency for exactly this kind of line (go.mod lists it as a
// direct requirement, though usock.go itself ends up importing
// github.com/tarm/serial instead) — wired here for real, for the one
// consumer in this module that actually wants a cross-platform serial
// port rather than a Linux-only fd.
//
// go.bug.st/serial's Port has no native non-blocking mode; Port emulates
// one with a short SetReadTimeout poll, where a timeout is reported as
// (0, nil) rather than an error — exactly what ReadInto needs to signal
// "no progress yet, try later".
package serial

import (
	"time"

	"go.bug.st/serial"

	"tinyxpc.dev/xpc"
)

// pollTimeout bounds how long one ReadInto attempt may wait for the first
// byte before reporting no progress. It is short enough that ContinueRead
// still behaves like a non-blocking poll when called from a tight loop.
const pollTimeout = 2 * time.Millisecond

// Port is a serial.Port adapted to the xpc.Transport contract.
type Port struct {
	p serial.Port
}

var _ xpc.Transport = (*Port)(nil)

// Open opens path at the given baud rate, 8N1, with ReadTimeout already
// set to pollTimeout.
func Open(path string, baud int) (*Port, error) {
	p, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(pollTimeout); err != nil {
		p.Close()
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
	if err != nil {
		return buf, 0, err
	}
	if n == 0 {
		return buf, 0, xpc.ErrWouldBlock
	}
	return buf, n, nil
}

func (t *Port) WriteFrom(buf []byte, offset, max int) (int, error) {
	n, err := t.p.Write(buf[offset : offset+max])
	return n, err
}

// Discard is a no-op: go.bug.st/serial exposes no internal queue to trim.
func (t *Port) Discard(dir xpc.Direction, n int) {}

// Notify is a no-op; see ttyfd.Port.Notify for the same rationale.
func (t *Port) Notify(dir xpc.Direction, enable bool) {}

// Close releases the underlying port.
func (t *Port) Close() error {
	return t.p.Close()
}
