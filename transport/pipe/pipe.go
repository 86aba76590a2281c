// Package pipe is an in-memory xpc.Transport, the non-blocking counterpart
// to the teacher's net.Pipe-based examples (hayabusa-cloud-framer's
// examples/pipe_test.go): two endpoints wired together by byte queues
// instead of a real socket, used by the relay's scenario tests.
package pipe

import (
	"sync"

	"tinyxpc.dev/xpc"
)

type queue struct {
	mu  sync.Mutex
	buf []byte
}

func (q *queue) push(b []byte) {
	q.mu.Lock()
	q.buf = append(q.buf, b...)
	q.mu.Unlock()
}

func (q *queue) read(dst []byte, max int) (buf []byte, n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		if dst != nil {
			return dst, 0
		}
		return nil, 0
	}
	n = max
	if n > len(q.buf) {
		n = len(q.buf)
	}
	if dst != nil {
		copy(dst, q.buf[:n])
		q.buf = q.buf[n:]
		return dst, n
	}
	own := make([]byte, max)
	copy(own, q.buf[:n])
	q.buf = q.buf[n:]
	return own, n
}

func (q *queue) discard(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n < 0 || n > len(q.buf) {
		q.buf = q.buf[:0]
		return
	}
	q.buf = q.buf[n:]
}

// End is one side of a Pipe. It implements xpc.Transport structurally.
type End struct {
	out, in *queue

	readNotify, writeNotify bool
}

var _ xpc.Transport = (*End)(nil)

// New returns two Ends wired to each other: bytes written on one side are
// read from the other.
func New() (*End, *End) {
	ab := &queue{}
	ba := &queue{}
	a := &End{out: ab, in: ba}
	b := &End{out: ba, in: ab}
	return a, b
}

func (e *End) ReadInto(dst []byte, offset, max int) ([]byte, int, error) {
	buf, n := e.in.read(dst, max)
	return buf, n, nil
}

func (e *End) WriteFrom(buf []byte, offset, max int) (int, error) {
	n := max
	if n > len(buf)-offset {
		n = len(buf) - offset
	}
	if n < 0 {
		n = 0
	}
	e.out.push(buf[offset : offset+n])
	return n, nil
}

// Discard with n < 0 on the read side drops everything still queued for
// reading. ReadInto already removes the bytes it returns, so a read-side
// discard of n >= 0 has nothing left to release; bytes pushed by WriteFrom
// already sit in the peer's read queue, so a write-side discard is a no-op.
func (e *End) Discard(dir xpc.Direction, n int) {
	if dir == xpc.DirRead && n < 0 {
		e.in.discard(n)
	}
}

// Notify records readiness interest for dir. Pipe is poll-driven (tests
// call ContinueRead/ContinueWrite directly), so this is bookkeeping only —
// there is no event loop to arm or disarm.
func (e *End) Notify(dir xpc.Direction, enable bool) {
	if dir == xpc.DirRead {
		e.readNotify = enable
	} else {
		e.writeNotify = enable
	}
}
