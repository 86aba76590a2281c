package xpc

import "code.hybscloud.com/iox"

// These are re-exported from code.hybscloud.com/iox so callers can
// reference the semantic control-flow errors without importing iox
// directly — the same pattern the teacher (framer.go) uses for the same
// purpose.
var (
	// ErrWouldBlock means "no further progress without waiting". It is an
	// expected, non-failure control-flow signal: any byte count returned
	// alongside it still represents real progress.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means "this completion is usable and more completions will
	// follow" — the operation remains active and the caller should invoke
	// the same Continue method again once more data/capacity is expected.
	ErrMore = iox.ErrMore
)

// Direction distinguishes the read and write sides of a Transport for the
// Discard and Notify calls.
type Direction uint8

const (
	DirRead Direction = iota
	DirWrite
)

// Transport is the external, non-blocking byte-duplex collaborator a Relay
// is bound to (spec.md §4.1). Implementations must never block; every
// method makes at most one bounded attempt at progress and returns.
//
// Transport is deliberately NOT implemented by this package's core: it is
// an external collaborator, supplied by the caller. See the transport/
// subpackages for reference implementations (in-memory pipe, portable
// serial port, Linux fd/ioctl serial port).
type Transport interface {
	// ReadInto attempts one non-blocking read of up to max bytes at the
	// given logical offset into the current frame.
	//
	// If dst is non-nil, ReadInto must read into dst (len(dst) == max) and
	// return buf == dst. If dst is nil, the adapter is free to return its
	// own backing storage of capacity max in buf instead of requiring the
	// caller to supply one — this is the Go rendering of the original C
	// contract's "*buffer_ptr_ptr" output convention (spec.md §9:
	// "reimplement with a tagged variant Own | Borrow(ptr) rather than a
	// nullable out-pointer"); passing dst == nil selects the Own arm,
	// dst != nil selects Borrow. max is carried as an explicit parameter
	// (rather than inferred from len(dst)) precisely so the Own arm knows
	// how much to allocate with no dst to measure.
	//
	// n is the number of bytes actually read, 0 <= n <= max. A return of
	// (nil, 0, nil) means "no progress right now, try later" exactly like
	// a zero-length non-blocking read; ErrWouldBlock/ErrMore carry the
	// same meaning explicitly.
	//
	// In the Own case (dst == nil), the returned buf must have length max
	// regardless of n — the relay slices further into the same buf on
	// subsequent calls rather than asking for a fresh one, exactly as the
	// original contract's "*buffer_ptr_ptr" is reused unchanged across the
	// calls that complete one message.
	ReadInto(dst []byte, offset, max int) (buf []byte, n int, err error)

	// WriteFrom attempts one non-blocking write of buf[offset:offset+max]
	// (bounded by max, not by len(buf)). Returns bytes actually written,
	// 0 <= n <= max.
	WriteFrom(buf []byte, offset, max int) (n int, err error)

	// Discard marks n bytes as consumed for the given direction, allowing
	// a buffering adapter to release them. n == -1 discards everything
	// currently buffered for that direction.
	Discard(dir Direction, n int)

	// Notify asks the transport to raise (enable == true) or suppress
	// (enable == false) readiness events for the given direction.
	Notify(dir Direction, enable bool)
}
