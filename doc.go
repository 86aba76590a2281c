// Package xpc implements the TinyXPC relay: a small point-to-point
// message-framing protocol for constrained endpoints (microcontrollers,
// RTOS tasks, co-processors) linked by a single byte-duplex transport that
// provides no framing of its own.
//
// A Relay holds two cooperating state machines, a writer and a reader,
// driven by externally supplied non-blocking I/O. The writer frames
// outgoing RESET/CONFIG/XON/XOFF/MSG frames onto the transport; the reader
// deframes incoming bytes, verifies an optional CRC trailer, and dispatches
// completed MSG frames to the application. The two machines never run
// concurrently with each other — they are two methods on the same
// single-threaded object, coordinated by a small signal bitset, not by
// channels or message passing.
//
// Neither ContinueWrite nor ContinueRead blocks: each call makes bounded
// progress on the in-flight frame (if any) and returns. The caller —
// typically a transport's readiness notifier — is responsible for calling
// the appropriate Continue method again when the transport becomes ready.
//
// Relay is not safe for concurrent use by multiple goroutines; place each
// Relay on its own goroutine if more than one connection is required.
package xpc
