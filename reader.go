package xpc

import "bytes"

// ContinueRead drives the read state machine (spec.md §4.5): one bounded
// non-blocking ReadInto attempt (sized by the current phase) followed by
// one pass of state bookkeeping. Unlike ContinueWrite, the loop here
// continues only while the state itself changes, not merely because a read
// made progress — a partial read that leaves the phase unchanged is
// reported back on the next call, exactly as the original source's
// xpc_rd_op_continue do-while condition tests only the state, not the byte
// count.
//
// ContinueRead never blocks. It returns Done after driving as much of the
// read slot forward as the transport currently allows; a fully dispatched
// MSG or fully applied CONFIG also returns Done (there is no separate
// "message ready" status — the Dispatcher callback is the only place the
// application observes an arrived message, per spec.md §4.3).
func (r *Relay) ContinueRead() Status {
	if r == nil || r.transport == nil {
		return BadState
	}

	for {
		startOp := r.rd.op

		switch {
		case r.rd.complete < HeaderLen:
			dst := r.rd.headerBuf[r.rd.complete:HeaderLen]
			_, n, _ := r.transport.ReadInto(dst, r.rd.complete, HeaderLen-r.rd.complete)
			r.rd.complete += n

		case r.rd.complete < r.rd.total && (r.rd.op == ReadWaitMsg || r.rd.op == ReadWaitConfig):
			off := r.rd.complete - HeaderLen
			want := r.rd.total - r.rd.complete
			var dst []byte
			if r.rd.payload != nil {
				dst = r.rd.payload[off : off+want]
			}
			// r.rd.payload is only nil on the very first call for this
			// frame, at which point off == 0 and want == the full
			// remaining frame length — exactly the capacity the Own
			// contract promises buf will have.
			buf, n, _ := r.transport.ReadInto(dst, off, want)
			if r.rd.payload == nil {
				r.rd.payload = buf
			}
			r.rd.complete += n
		}

		switch r.rd.op {
		case ReadNone:
			if r.rd.complete >= HeaderLen {
				r.rd.header = DecodeHeader(r.rd.headerBuf)
				r.applyHeader()
			}

		case ReadWaitReset:
			if r.rd.complete >= HeaderLen {
				// Re-decode from headerBuf, the bytes ReadNone classified
				// this frame from.
				r.rd.header = DecodeHeader(r.rd.headerBuf)
				if !isCanonicalReset(r.rd.header) {
					// spec.md §4.5 corrects the original C source, which
					// discards 5 *write*-side bytes here — the bytes that
					// actually need discarding are the ones just read. The
					// slot is then cleared, so the next header is classified
					// afresh in ReadNone.
					r.transport.Discard(DirRead, HeaderLen)
					r.rd.reset()
					break
				}
				switch {
				case r.signals.Has(SigRstSend):
					r.signals.Clear(SigRstSend)
					r.signals.Clear(SigRstRecvd)
					r.transport.Discard(DirRead, -1)
					r.transport.Discard(DirWrite, -1)
					r.rd.reset()
				case r.signals.Has(SigRstRecvd):
					// Waiting for the writer to echo and clear SigRstRecvd
					// (spec.md §9: an explicit, documented idle state, not
					// an accidental self-loop).
				default:
					r.rd.reset()
				}
			}

		case ReadWaitMsg:
			if r.rd.complete == r.rd.total {
				size := int(r.rd.header.Size)
				if r.connConfig.CRCBits > 0 {
					want := r.crc.Compute(r.rd.payload[:size])
					got := r.rd.payload[size : size+r.connConfig.CRCBytes()]
					if !bytes.Equal(want, got) {
						r.transport.Discard(DirRead, -1)
						r.rd.reset()
						break
					}
				}
				r.rd.op = ReadWaitDispatch
			}

		case ReadWaitDispatch:
			size := int(r.rd.header.Size)
			if r.dispatch != nil && r.dispatch(r.rd.header, r.rd.payload[:size]) {
				r.transport.Discard(DirRead, -1)
				r.rd.reset()
			}

		case ReadWaitConfig:
			if r.rd.complete == r.rd.total {
				flags, crcBits, poly, err := DecodeConfigPayload(r.rd.payload[:r.rd.total-HeaderLen])
				r.transport.Discard(DirRead, -1)
				if err == nil {
					r.connConfig.Flags = flags
					r.connConfig.CRCBits = crcBits
					r.crc.Configure(int(crcBits), poly)
				}
				r.rd.reset()
			}
		}

		if r.rd.op == startOp {
			break
		}
	}
	return Done
}

// applyHeader classifies a freshly decoded frame header and transitions
// the read slot accordingly (spec.md §4.5's NONE case).
func (r *Relay) applyHeader() {
	switch r.rd.header.Type {
	case FrameReset:
		if r.signals.Has(SigRstSend) {
			r.signals.Clear(SigRstSend)
			r.transport.Discard(DirRead, -1)
			r.transport.Discard(DirWrite, -1)
			r.rd.reset()
		} else {
			r.signals.Set(SigRstRecvd)
			r.rd.op = ReadWaitReset
		}

	case FrameConfig:
		r.rd.op = ReadWaitConfig
		r.rd.total = HeaderLen + int(r.rd.header.Size)

	case FrameMsg:
		r.rd.op = ReadWaitMsg
		r.rd.total = HeaderLen + int(r.rd.header.Size) + r.connConfig.CRCBytes()

	case FrameXON:
		r.signals.Clear(SigXoffRecvd)
		r.rd.reset()

	case FrameXOFF:
		r.signals.Set(SigXoffRecvd)
		r.rd.reset()

	case FrameAck:
		r.signals.Set(SigAckRecvd)
		r.rd.reset()

	default:
		r.transport.Discard(DirRead, -1)
		r.rd.reset()
	}
}
