package savegame

import (
	"errors"
	"testing"

	"github.com/Faultbox/ottd-prayer/internal/wire"
)

// buildTableChunk encodes a minimal PLYR-shaped Table chunk with a single
// root-level field "name" (type 10 with the 0x10 repeat flag, so each row
// carries a gamma byte count before the name) and one row per name.
func buildTableChunk(t *testing.T, tag string, names []string) []byte {
	t.Helper()
	w := wire.NewWriter()
	w.Raw([]byte(tag))
	w.Uint8(0x03) // chunk_type low nibble 3 = Table

	header := wire.NewWriter()
	header.Uint8(0x10 | 10)    // field type 10, repeat flag set
	wire.WriteGamma(header, 4) // key length
	header.Raw([]byte("name"))
	header.Uint8(0) // end of struct def
	headerBody := header.Bytes()

	hw := wire.NewWriter()
	wire.WriteGamma(hw, uint32(len(headerBody))+1)
	hw.Raw(headerBody)
	w.Raw(hw.Bytes())

	for _, name := range names {
		row := wire.NewWriter()
		wire.WriteGamma(row, uint32(len(name))) // repeat = byte count
		row.Raw([]byte(name))
		rowBody := row.Bytes()
		wire.WriteGamma(w, uint32(len(rowBody))+1)
		w.Raw(rowBody)
	}
	wire.WriteGamma(w, 0) // end of rows

	return w.Bytes()
}

func buildContainer(t *testing.T, chunk []byte) []byte {
	t.Helper()
	w := wire.NewWriter()
	w.Raw([]byte("OTTN"))
	w.Uint16(MinSupportedVersion)
	w.Uint16(0) // reserved
	w.Raw(chunk)
	w.Raw([]byte{0, 0, 0, 0}) // terminator
	return w.Bytes()
}

func TestDecodeTableAndFindCompany(t *testing.T) {
	chunk := buildTableChunk(t, "PLYR", []string{"Acme", "Widgets"})
	data := buildContainer(t, chunk)

	container, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	idx, err := container.FindCompanyIndex("Acme")
	if err != nil {
		t.Fatalf("FindCompanyIndex: %v", err)
	}
	if idx != 0 {
		t.Fatalf("index = %d, want 0", idx)
	}
	idx, err = container.FindCompanyIndex("Widgets")
	if err != nil {
		t.Fatalf("FindCompanyIndex: %v", err)
	}
	if idx != 1 {
		t.Fatalf("index = %d, want 1", idx)
	}
}

func TestFindCompanyNotFound(t *testing.T) {
	chunk := buildTableChunk(t, "PLYR", []string{"Acme"})
	data := buildContainer(t, chunk)
	container, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := container.FindCompanyIndex("Nope"); err != ErrCompanyNotFound {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestUnsupportedCompressionTag(t *testing.T) {
	w := wire.NewWriter()
	w.Raw([]byte("ZZZZ")).Uint16(MinSupportedVersion).Uint16(0)
	if _, err := Decode(w.Bytes()); !errors.Is(err, ErrUnsupportedCompression) {
		t.Fatalf("expected ErrUnsupportedCompression, got %v", err)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	w := wire.NewWriter()
	w.Raw([]byte("OTTN")).Uint16(100).Uint16(0)
	if _, err := Decode(w.Bytes()); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestRIFFChunk(t *testing.T) {
	w := wire.NewWriter()
	w.Raw([]byte("MAPS"))
	payload := []byte{1, 2, 3, 4, 5}
	w.Uint8(0x00) // chunk type low nibble 0 = RIFF, high nibble 0
	// length is uint24 little-endian
	w.Raw([]byte{byte(len(payload)), 0, 0})
	w.Raw(payload)
	w.Raw([]byte{0, 0, 0, 0})

	container := wire.NewWriter()
	container.Raw([]byte("OTTN")).Uint16(MinSupportedVersion).Uint16(0)
	container.Raw(w.Bytes())

	c, err := Decode(container.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	chunk, ok := c.Chunks["MAPS"]
	if !ok || chunk.Shape != ShapeRIFF {
		t.Fatalf("expected RIFF chunk MAPS, got %+v", c.Chunks)
	}
	if string(chunk.RIFFData) != string(payload) {
		t.Fatalf("RIFF data = %v, want %v", chunk.RIFFData, payload)
	}
}
