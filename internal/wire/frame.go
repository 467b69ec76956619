package wire

import (
	"encoding/binary"
	"io"
)

// MaxFrameSize is the TCP MTU cap the OpenTTD wire protocols impose on a
// single outbound frame, length prefix included.
const MaxFrameSize = 1460

// ReadFrame reads one complete frame from r: a little-endian uint16 total
// length (including itself), followed by a type byte and the packet body.
// It blocks until the whole frame has arrived, so it tolerates a frame
// split across an arbitrary number of TCP reads.
func ReadFrame(r io.Reader) (frameType uint8, body []byte, err error) {
	var lenBuf [2]byte
	if _, err = io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, nil, err
	}
	total := binary.LittleEndian.Uint16(lenBuf[:])
	if total < 3 {
		return 0, nil, ErrPacketInvalidData
	}
	rest := make([]byte, total-2)
	if _, err = io.ReadFull(r, rest); err != nil {
		return 0, nil, err
	}
	return rest[0], rest[1:], nil
}

// WriteFrame writes frameType and body to w as one length-prefixed frame.
func WriteFrame(w io.Writer, frameType uint8, body []byte) error {
	total := 2 + 1 + len(body)
	if total > MaxFrameSize {
		return ErrFrameTooLarge
	}
	buf := make([]byte, total)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(total))
	buf[2] = frameType
	copy(buf[3:], body)
	_, err := w.Write(buf)
	return err
}

// FinishDecode reports ErrPacketInvalidData if r has bytes left unread.
// Per-packet decoders call this once they believe they have consumed the
// entire body, so that trailing garbage fails the connection rather than
// being silently ignored.
func FinishDecode(r *Reader) error {
	if !r.AtEnd() {
		return ErrPacketInvalidData
	}
	return nil
}
