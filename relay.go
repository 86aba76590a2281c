package xpc

// Relay is the per-endpoint TinyXPC connection-state manager: one
// Transport, one CRCEngine, one Dispatcher, a ConnConfig, a Signals
// bitset, and the two operation slots (spec.md §2). It is created by New,
// lives for the duration of a session, and should be discarded by the
// caller once both slots are at their NONE state.
//
// Relay is not safe for concurrent use by multiple goroutines — see the
// package doc.
type Relay struct {
	transport  Transport
	dispatch   Dispatcher
	crc        CRCEngine
	connConfig ConnConfig
	signals    Signals

	wr writeSlot
	rd readSlot
}

// New constructs a Relay bound to t and dispatch, with ConnConfig starting
// at its zero value {CRCBits: 0, Flags: 0} (spec.md §3). Both slots and
// all signals start cleared. New never returns nil.
func New(t Transport, dispatch Dispatcher, opts ...Option) *Relay {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Relay{
		transport: t,
		dispatch:  dispatch,
		crc:       o.CRCEngine,
	}
}

// ConnConfig returns the relay's current connection configuration.
func (r *Relay) ConnConfig() ConnConfig { return r.connConfig }

// Signals returns the relay's current signal bitset. Exposed for tests and
// diagnostics; application code should not need to inspect it directly.
func (r *Relay) Signals() Signals { return r.signals }
