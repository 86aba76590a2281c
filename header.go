package xpc

import "encoding/binary"

// HeaderLen is the fixed on-wire size of a TinyXPC frame header, in bytes.
const HeaderLen = 5

// FrameType identifies the kind of frame on the wire. Any value outside
// the named set is a protocol error on receive.
type FrameType uint8

const (
	FrameReset  FrameType = 1
	FrameConfig FrameType = 2
	FrameXON    FrameType = 3
	FrameXOFF   FrameType = 4
	FrameAck    FrameType = 5
	FrameMsg    FrameType = 6
)

func (t FrameType) valid() bool {
	switch t {
	case FrameReset, FrameConfig, FrameXON, FrameXOFF, FrameAck, FrameMsg:
		return true
	default:
		return false
	}
}

func (t FrameType) String() string {
	switch t {
	case FrameReset:
		return "RESET"
	case FrameConfig:
		return "CONFIG"
	case FrameXON:
		return "XON"
	case FrameXOFF:
		return "XOFF"
	case FrameAck:
		return "ACK"
	case FrameMsg:
		return "MSG"
	default:
		return "UNKNOWN"
	}
}

// Header is the 5-byte frame header that precedes every TinyXPC frame:
// size:u16 little-endian, type:u8, to:u8, from:u8. size excludes the
// header itself and any trailing CRC.
type Header struct {
	Size uint16
	Type FrameType
	To   uint8
	From uint8
}

// headerByteOrder is fixed by the wire format — little-endian — and is not
// configurable, unlike the teacher's per-connection ByteOrder option: the
// TinyXPC wire format is a single exact layout, not a family of
// transport-dependent encodings.
var headerByteOrder = binary.LittleEndian

// EncodeHeader serializes h into a fixed 5-byte wire representation.
func EncodeHeader(h Header) [HeaderLen]byte {
	var b [HeaderLen]byte
	headerByteOrder.PutUint16(b[0:2], h.Size)
	b[2] = byte(h.Type)
	b[3] = h.To
	b[4] = h.From
	return b
}

// DecodeHeader parses a 5-byte wire representation into a Header. It does
// not validate Type; callers must check Type.valid() themselves, since an
// unknown type on receive is a FramingError handled by the reader state
// machine, not by the codec.
func DecodeHeader(b [HeaderLen]byte) Header {
	return Header{
		Size: headerByteOrder.Uint16(b[0:2]),
		Type: FrameType(b[2]),
		To:   b[3],
		From: b[4],
	}
}

// resetHeader is the canonical, payload-free RESET frame header.
func resetHeader() Header {
	return Header{Type: FrameReset, Size: 0, To: 0, From: 0}
}

func isCanonicalReset(h Header) bool {
	return h.Type == FrameReset && h.Size == 0 && h.To == 0 && h.From == 0
}

func headerOnly(t FrameType) Header {
	return Header{Type: t, Size: 0, To: 0, From: 0}
}
