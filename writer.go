package xpc

// SendReset enqueues a RESET frame, the connection resync primitive
// (spec.md §4.6). While any write is in flight, including an earlier RESET
// still waiting for the peer's echo, it returns Inflight and changes
// nothing.
func (r *Relay) SendReset() Status {
	if r == nil {
		return BadState
	}
	if r.wr.op != WriteNone {
		return Inflight
	}
	if r.signals.Has(SigXoffRecvd) {
		return Inhibit
	}
	r.wr.op = WriteReset
	r.wr.header = resetHeader()
	r.wr.total = HeaderLen
	r.wr.complete = 0
	r.signals.Set(SigRstSend)
	r.transport.Notify(DirWrite, true)
	return Done
}

// SendConfig enqueues a CONFIG frame announcing crcBits and polynomial to
// the peer, and applies the same configuration locally (spec.md §4.6): the
// CRC engine is reconfigured and ConnConfig updated immediately, not when
// the frame finishes transmitting — mirroring the original C source, which
// applies xpc_relay_send_config's crc_ctx_set_config call before queuing
// any bytes.
func (r *Relay) SendConfig(crcBits int, polynomial []byte, requireAck bool) Status {
	if r == nil {
		return BadState
	}
	if !validCRCBits(crcBits) {
		return BadState
	}
	if r.wr.op != WriteNone {
		return Inflight
	}
	if r.signals.Has(SigXoffRecvd) {
		return Inhibit
	}

	flags := ConfigFlags(0)
	if requireAck {
		flags = FlagRequireAck
	}
	payload := EncodeConfigPayload(flags, uint8(crcBits), polynomial)

	r.wr.op = WriteConfig
	r.wr.header = Header{Type: FrameConfig, Size: uint16(len(payload))}
	r.wr.payload = payload
	r.wr.total = HeaderLen + len(payload)
	r.wr.complete = 0

	r.connConfig.CRCBits = uint8(crcBits)
	r.connConfig.Flags = flags
	r.crc.Configure(crcBits, polynomial)
	r.transport.Notify(DirWrite, true)
	return Done
}

// SetFlow enqueues a header-only XON (xon == true) or XOFF frame, the local
// flow-control assertion (spec.md §4.6). Like the other control-surface
// calls, it returns Inhibit while the peer's XOFF is in effect.
func (r *Relay) SetFlow(xon bool) Status {
	if r == nil {
		return BadState
	}
	if r.wr.op != WriteNone {
		return Inflight
	}
	if r.signals.Has(SigXoffRecvd) {
		return Inhibit
	}
	t := FrameXOFF
	if xon {
		t = FrameXON
	}
	r.wr.op = WriteFlow
	r.wr.header = headerOnly(t)
	r.wr.total = HeaderLen
	r.wr.complete = 0
	r.transport.Notify(DirWrite, true)
	return Done
}

// SendMsg enqueues an application MSG frame addressed to to from from
// (spec.md §4.6). data is not copied; the caller must not mutate it until
// the write completes (spec.md §5, "Shared-resource policy"). CRC bytes,
// if ConnConfig.CRCBits != 0, are computed lazily once the payload itself
// has been fully written, not up front — see ContinueWrite.
func (r *Relay) SendMsg(to, from uint8, data []byte) Status {
	if r == nil {
		return BadState
	}
	if len(data) >= 1<<16 {
		return BadState
	}
	if r.wr.op != WriteNone {
		return Inflight
	}
	if r.signals.Has(SigXoffRecvd) {
		return Inhibit
	}
	r.wr.op = WriteMsg
	r.wr.header = Header{Type: FrameMsg, Size: uint16(len(data)), To: to, From: from}
	r.wr.payload = data
	r.wr.total = HeaderLen + len(data) + r.connConfig.CRCBytes()
	r.wr.complete = 0
	r.transport.Notify(DirWrite, true)
	return Done
}

// ContinueWrite drives the write state machine (spec.md §4.4): one bounded
// pass of bookkeeping followed by at most one non-blocking WriteFrom call,
// repeated while the state keeps changing or the last write made progress,
// and returning as soon as both go quiet for one pass.
//
// ContinueWrite never blocks. While idle (WriteNone) with XOFF_RECVD set it
// returns Inhibit immediately without scheduling anything, mirroring the
// original C source's goto done on that same check; otherwise a write that
// cannot proceed right now (WriteFrom returned 0) simply leaves the slot
// where it is for the next call and Done is returned.
func (r *Relay) ContinueWrite() Status {
	if r == nil || r.transport == nil {
		return BadState
	}

	if r.wr.op == WriteNone && r.signals.Has(SigXoffRecvd) {
		return Inhibit
	}

	for {
		startOp := r.wr.op

		var (
			doPayload bool
			doCRC     bool
			payload   []byte
			payloadOff int
			writeSize  int
			crcBytes   []byte
		)

		switch r.wr.op {
		case WriteNone:
			if r.signals.Has(SigRstRecvd) {
				r.wr.op = WriteReset
				r.wr.header = resetHeader()
				r.wr.total = HeaderLen
				r.wr.complete = 0
			} else {
				r.transport.Notify(DirWrite, false)
			}

		case WriteReset:
			if r.wr.complete == HeaderLen {
				switch {
				case r.signals.Has(SigRstRecvd):
					r.signals.Clear(SigRstRecvd)
					r.transport.Discard(DirRead, -1)
					r.transport.Discard(DirWrite, -1)
					r.wr.reset()
				case !r.signals.Has(SigRstSend):
					r.wr.reset()
				}
				// else: we are the initiator, still waiting for the
				// peer's echo before SigRstSend is cleared by the reader.
			}

		case WriteMsg:
			doPayload = true
			payload = r.wr.payload
			payloadOff = r.wr.complete - HeaderLen
			writeSize = r.wr.total - r.wr.complete - r.connConfig.CRCBytes()
			switch {
			case r.wr.complete == r.wr.total:
				r.transport.Discard(DirWrite, -1)
				r.wr.reset()
				doPayload = false
			case r.wr.complete == HeaderLen+len(r.wr.payload):
				doPayload = false
				doCRC = true
				crcBytes = r.crc.Compute(r.wr.payload)
			}

		case WriteConfig:
			doPayload = true
			payload = r.wr.payload
			payloadOff = r.wr.complete - HeaderLen
			writeSize = r.wr.total - r.wr.complete
			if r.wr.complete == r.wr.total {
				r.transport.Discard(DirWrite, -1)
				r.wr.reset()
				doPayload = false
			}

		case WriteFlow, WriteAck:
			if r.wr.complete == r.wr.total {
				r.transport.Discard(DirWrite, -1)
				r.wr.reset()
			}
		}

		n := 0
		switch {
		case r.wr.complete < HeaderLen && r.wr.total > 0:
			hdr := EncodeHeader(r.wr.header)
			n, _ = r.transport.WriteFrom(hdr[:], r.wr.complete, HeaderLen-r.wr.complete)
		case doPayload:
			n, _ = r.transport.WriteFrom(payload, payloadOff, writeSize)
		case doCRC:
			n, _ = r.transport.WriteFrom(crcBytes, 0, len(crcBytes))
		}
		r.wr.complete += n

		if r.wr.op == startOp && n == 0 {
			break
		}
	}
	return Done
}
