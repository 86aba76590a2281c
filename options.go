package xpc

// Options configures a Relay at construction time. Unlike the original C
// source's single xpc_relay_config call (which took io_ctx/msg_ctx/crc_ctx
// plus six raw function pointers), collaborators are split between the two
// required constructor arguments (Transport, Dispatcher — see New) and
// options for everything optional, following the teacher's own
// Option/Options pattern (options.go in hayabusa-cloud-framer).
type Options struct {
	CRCEngine CRCEngine
}

var defaultOptions = Options{
	CRCEngine: noopCRCEngine{},
}

// Option mutates Options during New.
type Option func(*Options)

// WithCRCEngine installs the CRC collaborator used whenever ConnConfig.CRCBits
// is non-zero. If omitted, a Relay is constructed with a no-op engine whose
// Configure does nothing and whose Compute returns nil, so CRC framing
// works only with a real engine (see package crc for a reference
// implementation).
func WithCRCEngine(e CRCEngine) Option {
	return func(o *Options) { o.CRCEngine = e }
}
