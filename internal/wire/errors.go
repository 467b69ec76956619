// Package wire implements the OpenTTD length-prefixed frame codec and the
// little-endian primitive encoding shared by the coordinator and game wire
// protocols.
package wire

import "errors"

// ErrPacketTooShort is returned when a read would consume more bytes than
// are available in the packet body. Callers decoding an optional trailing
// field may treat this as "field absent" rather than a fatal error.
var ErrPacketTooShort = errors.New("wire: packet too short")

// ErrPacketInvalidData is returned when a decoder finishes with bytes left
// over in the body, or when a frame's declared length is internally
// inconsistent. It is always fatal to the connection.
var ErrPacketInvalidData = errors.New("wire: invalid packet data")

// ErrFrameTooLarge is returned by WriteFrame when an outbound frame would
// exceed the TCP MTU cap used by the OpenTTD wire protocols.
var ErrFrameTooLarge = errors.New("wire: frame exceeds MTU cap")
