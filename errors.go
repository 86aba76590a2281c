package xpc

import (
	"errors"
)

// Status is the return value of every control-surface call (spec.md §7):
// it is the only user-visible failure mode after a Relay is constructed.
type Status uint8

const (
	// Done means the call was accepted (a frame was enqueued, or a
	// Continue call made whatever bounded progress it could — Continue
	// calls return Done even mid-frame, meaning "no error, more work may
	// be pending", per spec.md §5).
	Done Status = iota
	// Inflight means a write is already in progress; retry after the
	// next ContinueWrite.
	Inflight
	// Inhibit means the peer has asserted XOFF; retry after XON.
	Inhibit
	// BadState means the call was made on a nil Relay, or (for
	// ContinueWrite/ContinueRead) the Relay's Transport is nil, or an
	// argument was rejected: an unsupported width passed to SendConfig or
	// 65536 or more bytes passed to SendMsg.
	BadState
)

func (s Status) String() string {
	switch s {
	case Done:
		return "DONE"
	case Inflight:
		return "INFLIGHT"
	case Inhibit:
		return "INHIBIT"
	case BadState:
		return "BAD_STATE"
	default:
		return "?"
	}
}

// errFraming is the internal FramingError policy sentinel (spec.md §7):
// unknown frame type on receive, invalid RESET payload, or a CONFIG frame
// with an unsupported crc_bits. It never crosses the package boundary —
// the reader's response is always "discard the offending bytes, clear the
// reader slot, stay on the wire", with no user-visible notification.
var errFraming = errors.New("xpc: framing error")

// errCrcMismatch is the internal CrcMismatch policy sentinel (spec.md §7):
// a MSG's trailing CRC bytes don't match the payload. The reader's
// response is to drop the frame without dispatching and discard the read
// buffer; in ack-mode a NACK would be emitted here (reserved, not yet
// implemented — see spec.md §9).
var errCrcMismatch = errors.New("xpc: crc mismatch")
