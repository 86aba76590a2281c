package xpc

// Dispatcher is called by the reader state machine on successful
// reception of a MSG frame, with its CRC verified first if CRC is enabled
// (spec.md §4.3). payload is exactly the hdr.Size contiguous application
// bytes; any trailing CRC bytes are not part of payload.
//
// Returning true means the application has taken ownership of the payload
// bytes (the reader may clear its slot and tell the transport to discard
// the read buffer); returning false means "retry later, do not clear" —
// the reader remains in ReadWaitDispatch and calls Dispatcher again on the
// next ContinueRead.
//
// Dispatcher is the only collaborator permitted to mutate the payload
// region (spec.md §4.3).
type Dispatcher func(hdr Header, payload []byte) bool
