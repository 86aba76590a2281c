package xpc

import "fmt"

// ConfigFlags carries the bit-level CONFIG frame options. Only bit 0 is
// defined; bits 1..7 are reserved and must be zero (spec.md §9: this
// formalizes what the original C source expressed as a raw
// `flags = (uint8_t)msg_sync_ack` assignment into a single named union).
type ConfigFlags uint8

const (
	// FlagRequireAck is bit 0: require synchronous ACK for MSG frames.
	FlagRequireAck ConfigFlags = 1 << 0

	configFlagsReserved ConfigFlags = ^FlagRequireAck
)

// RequireAck reports whether bit 0 is set.
func (f ConfigFlags) RequireAck() bool { return f&FlagRequireAck != 0 }

// reservedSet reports whether any reserved bit (1..7) is set.
func (f ConfigFlags) reservedSet() bool { return f&configFlagsReserved != 0 }

// ConnConfig is the per-relay connection configuration: CRC width and
// flags. The zero value is the spec-mandated initial value {0, 0}: CRC
// disabled, no ack requirement.
type ConnConfig struct {
	CRCBits uint8
	Flags   ConfigFlags
}

// CRCBytes returns the number of trailing CRC bytes implied by CRCBits.
func (c ConnConfig) CRCBytes() int { return int(c.CRCBits) / 8 }

// validCRCBits is the authoritative set of supported CRC widths. Restricting
// to this set resolves spec.md §9's first open question: the original C
// source computed `crc_bits >> 3` unconditionally, silently truncating any
// width that isn't a multiple of eight.
func validCRCBits(bits int) bool {
	switch bits {
	case 0, 8, 16, 32, 64:
		return true
	default:
		return false
	}
}

// ErrUnsupportedCRCWidth describes a crcBits value outside {0, 8, 16, 32,
// 64}. No function in this package returns it; SendConfig reports such a
// width as BadState.
type ErrUnsupportedCRCWidth int

func (e ErrUnsupportedCRCWidth) Error() string {
	return fmt.Sprintf("xpc: unsupported crc width: %d bits", int(e))
}

// EncodeConfigPayload serializes a CONFIG frame payload: flags, crc_bits,
// then crc_bits/8 polynomial bytes.
func EncodeConfigPayload(flags ConfigFlags, crcBits uint8, polynomial []byte) []byte {
	p := make([]byte, 2+len(polynomial))
	p[0] = byte(flags)
	p[1] = crcBits
	copy(p[2:], polynomial)
	return p
}

// DecodeConfigPayload parses a CONFIG frame payload of exactly
// 2+crcBits/8 bytes (see size in the frame header).
func DecodeConfigPayload(p []byte) (flags ConfigFlags, crcBits uint8, polynomial []byte, err error) {
	if len(p) < 2 {
		return 0, 0, nil, errFraming
	}
	flags = ConfigFlags(p[0])
	crcBits = p[1]
	if flags.reservedSet() {
		return 0, 0, nil, errFraming
	}
	if !validCRCBits(int(crcBits)) {
		return 0, 0, nil, errFraming
	}
	want := int(crcBits) / 8
	if len(p) != 2+want {
		return 0, 0, nil, errFraming
	}
	polynomial = p[2:]
	return flags, crcBits, polynomial, nil
}
