package xpc

// WriteOp is the write state machine's current operation. Unlike the
// original C source, which aliases WAIT_* read states onto these same
// integer values to save space, WriteOp and ReadOp are disjoint types —
// spec.md §9 calls the aliasing "a space optimization, not a semantic
// one" and asks a reimplementation to restore type separation.
type WriteOp uint8

const (
	WriteNone WriteOp = iota
	WriteReset
	WriteMsg
	WriteConfig
	WriteAck
	// WriteFlow sends a header-only XON or XOFF frame. The original C
	// source never implements xpc_relay_set_flow (declared in the header,
	// no body in xpc_relay.c); this state gives it a real write-slot home
	// rather than leaving SetFlow unimplementable.
	WriteFlow
)

func (o WriteOp) String() string {
	switch o {
	case WriteNone:
		return "NONE"
	case WriteReset:
		return "RESET"
	case WriteMsg:
		return "MSG"
	case WriteConfig:
		return "CONFIG"
	case WriteAck:
		return "ACK"
	case WriteFlow:
		return "FLOW"
	default:
		return "?"
	}
}

// ReadOp is the read state machine's current operation.
type ReadOp uint8

const (
	ReadNone ReadOp = iota
	ReadWaitReset
	ReadWaitMsg
	ReadWaitConfig
	ReadWaitAck
	ReadWaitDispatch
)

func (o ReadOp) String() string {
	switch o {
	case ReadNone:
		return "NONE"
	case ReadWaitReset:
		return "WAIT_RESET"
	case ReadWaitMsg:
		return "WAIT_MSG"
	case ReadWaitConfig:
		return "WAIT_CONFIG"
	case ReadWaitAck:
		return "WAIT_ACK"
	case ReadWaitDispatch:
		return "WAIT_DISPATCH"
	default:
		return "?"
	}
}

// writeSlot is the bookkeeping for the single in-flight write operation.
// Invariant: op == WriteNone iff total == 0 && complete == 0.
type writeSlot struct {
	op       WriteOp
	total    int
	complete int
	header   Header
	payload  []byte
}

func (s *writeSlot) reset() {
	s.op = WriteNone
	s.total = 0
	s.complete = 0
	s.header = Header{}
	s.payload = nil
}

// readSlot is the bookkeeping for the single in-flight read operation.
// complete counts header bytes too: in ReadNone it runs from 0 up to
// HeaderLen while a header is partly read. ReadWaitReset holds the 5 header
// bytes with total left at 0; the other ops set total to the full frame
// length.
type readSlot struct {
	op       ReadOp
	total    int
	complete int
	header   Header
	// headerBuf accumulates the 5 raw header bytes across partial reads
	// before they are parsed into header.
	headerBuf [HeaderLen]byte
	payload   []byte
}

func (s *readSlot) reset() {
	s.op = ReadNone
	s.total = 0
	s.complete = 0
	s.header = Header{}
	s.headerBuf = [HeaderLen]byte{}
	s.payload = nil
}
