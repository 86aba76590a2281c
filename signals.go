package xpc

// Signals is the flat bitset shared between a relay's writer and reader
// state machines. Both machines run on the same goroutine and never
// interleave with each other (see package doc), so Signals is an ordinary
// field, never an atomic type — spec.md §9 is explicit that this shape
// ("a flat bitset field per relay") is deliberate, not an oversight to be
// "fixed" with channels or message passing.
type Signals uint8

const (
	// SigRstRecvd: reader saw a RESET and needs the writer to emit the
	// acknowledging RESET; cleared by the writer on send-complete.
	SigRstRecvd Signals = 1 << iota
	// SigRstSend: writer emitted a locally originated RESET; cleared by
	// the reader when the peer's RESET echo is observed.
	SigRstSend
	// SigConfigRecvd is reserved, symmetric to SigRstRecvd.
	SigConfigRecvd
	// SigConfigSend is reserved, symmetric to SigRstSend.
	SigConfigSend
	// SigXoffRecvd: peer has asserted flow-off. While set, all
	// write-initiating calls are inhibited.
	SigXoffRecvd
	// SigAckRecvd is reserved for ack-mode operation.
	SigAckRecvd
	// SigNackRecvd is reserved for ack-mode operation.
	SigNackRecvd
)

func (s Signals) Has(bit Signals) bool { return s&bit != 0 }
func (s *Signals) Set(bit Signals)     { *s |= bit }
func (s *Signals) Clear(bit Signals)   { *s &^= bit }
