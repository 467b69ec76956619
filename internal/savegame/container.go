package savegame

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/Faultbox/ottd-prayer/internal/wire"
)

// Container is a fully decoded savegame: every chunk the stream contained,
// keyed by its four-byte tag.
type Container struct {
	Version uint16
	Chunks  map[string]Chunk
}

// Decode parses a complete savegame buffer: compression tag, version,
// reserved field, then the chunk stream (LZMA-decompressed first if the
// tag is OTTX).
func Decode(data []byte) (*Container, error) {
	r := wire.NewReader(data)
	tagBytes, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	tag := string(tagBytes)

	version, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if version < MinSupportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if _, err := r.Uint16(); err != nil { // reserved
		return nil, err
	}

	rest := r.Rest()
	var body []byte
	switch tag {
	case "OTTN":
		body = rest
	case "OTTX":
		lr, err := lzma.NewReader(bytes.NewReader(rest))
		if err != nil {
			return nil, fmt.Errorf("savegame: lzma: %w", err)
		}
		body, err = io.ReadAll(lr)
		if err != nil {
			return nil, fmt.Errorf("savegame: lzma: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, tag)
	}

	chunks, err := parseChunks(body)
	if err != nil {
		return nil, err
	}
	return &Container{Version: version, Chunks: chunks}, nil
}
