package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Uint8(0x12).Uint16(0x3456).Uint32(0x789ABCDE).Uint64(0x0102030405060708).String("hello")

	r := NewReader(w.Bytes())
	if v, err := r.Uint8(); err != nil || v != 0x12 {
		t.Fatalf("Uint8 = %x, %v", v, err)
	}
	if v, err := r.Uint16(); err != nil || v != 0x3456 {
		t.Fatalf("Uint16 = %x, %v", v, err)
	}
	if v, err := r.Uint32(); err != nil || v != 0x789ABCDE {
		t.Fatalf("Uint32 = %x, %v", v, err)
	}
	if v, err := r.Uint64(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("Uint64 = %x, %v", v, err)
	}
	if s, err := r.String(); err != nil || s != "hello" {
		t.Fatalf("String = %q, %v", s, err)
	}
	if !r.AtEnd() {
		t.Fatalf("expected reader exhausted, %d bytes remain", r.Remaining())
	}
}

func TestUint24(t *testing.T) {
	w := NewWriter()
	w.Raw([]byte{0x01, 0x02, 0x03})
	r := NewReader(w.Bytes())
	v, err := r.Uint24()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x030201 {
		t.Fatalf("Uint24 = %#x, want 0x030201", v)
	}
}

func TestShortReadIsRecoverable(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.Uint32(); !errors.Is(err, ErrPacketTooShort) {
		t.Fatalf("expected ErrPacketTooShort, got %v", err)
	}
}

func TestStringMissingTerminator(t *testing.T) {
	r := NewReader([]byte("no terminator"))
	if _, err := r.String(); !errors.Is(err, ErrPacketTooShort) {
		t.Fatalf("expected ErrPacketTooShort, got %v", err)
	}
}

func TestGammaRoundTrip(t *testing.T) {
	values := []uint32{
		0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF, 0x200000,
		0xFFFFFFF, 0x10000000, 0xFFFFFFFF,
	}
	for _, v := range values {
		w := NewWriter()
		WriteGamma(w, v)
		r := NewReader(w.Bytes())
		got, err := ReadGamma(r)
		if err != nil {
			t.Fatalf("ReadGamma(%#x): %v", v, err)
		}
		if got != v {
			t.Errorf("ReadGamma(WriteGamma(%#x)) = %#x", v, got)
		}
		if !r.AtEnd() {
			t.Errorf("gamma encoding of %#x left %d trailing bytes", v, r.Remaining())
		}
	}
}

func TestGammaLengthPrefixMatchesLeadingOnes(t *testing.T) {
	cases := []struct {
		v          uint32
		wantLength int
	}{
		{0, 1}, {0x7F, 1},
		{0x80, 2}, {0x3FFF, 2},
		{0x4000, 3}, {0x1FFFFF, 3},
		{0x200000, 4}, {0xFFFFFFF, 4},
		{0x10000000, 5}, {0xFFFFFFFF, 5},
	}
	for _, c := range cases {
		w := NewWriter()
		WriteGamma(w, c.v)
		if len(w.Bytes()) != c.wantLength {
			t.Errorf("WriteGamma(%#x) length = %d, want %d", c.v, len(w.Bytes()), c.wantLength)
		}
	}
}

// chunkedReader drips data n bytes at a time, to exercise framing across
// arbitrary TCP chunk boundaries.
type chunkedReader struct {
	data      []byte
	chunkSize int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, 0x07, []byte{0xAA, 0xBB, 0xCC}); err != nil {
		t.Fatal(err)
	}
	typ, body, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if typ != 0x07 || !bytes.Equal(body, []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("got type %x body %x", typ, body)
	}
}

func TestFrameAcrossArbitraryChunkBoundaries(t *testing.T) {
	var buf bytes.Buffer
	want := [][]byte{
		{0x01, 0x02},
		{},
		{0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A},
	}
	for i, body := range want {
		if err := WriteFrame(&buf, uint8(i), body); err != nil {
			t.Fatal(err)
		}
	}
	full := buf.Bytes()

	for chunkSize := 1; chunkSize <= len(full); chunkSize++ {
		r := &chunkedReader{data: append([]byte(nil), full...), chunkSize: chunkSize}
		for i, body := range want {
			typ, got, err := ReadFrame(r)
			if err != nil {
				t.Fatalf("chunkSize=%d packet %d: %v", chunkSize, i, err)
			}
			if typ != uint8(i) {
				t.Fatalf("chunkSize=%d packet %d: type = %d, want %d", chunkSize, i, typ, i)
			}
			if !bytes.Equal(got, body) && !(len(got) == 0 && len(body) == 0) {
				t.Fatalf("chunkSize=%d packet %d: body = %x, want %x", chunkSize, i, got, body)
			}
		}
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	body := make([]byte, MaxFrameSize)
	if err := WriteFrame(&buf, 0, body); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestFinishDecode(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.Uint8(); err != nil {
		t.Fatal(err)
	}
	if err := FinishDecode(r); err == nil {
		t.Fatal("expected ErrPacketInvalidData with trailing byte")
	}
	if _, err := r.Uint8(); err != nil {
		t.Fatal(err)
	}
	if err := FinishDecode(r); err != nil {
		t.Fatalf("expected no error when exhausted, got %v", err)
	}
}
