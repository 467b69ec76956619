// Package savegame decodes the chunked, optionally LZMA-compressed
// container format used by OpenTTD savegames, far enough to extract the
// PLYR (company) table.
package savegame

import "errors"

// ErrUnsupportedCompression is returned for a compression tag other than
// OTTN or OTTX.
var ErrUnsupportedCompression = errors.New("savegame: unsupported compression tag")

// ErrUnsupportedVersion is returned when the savegame version predates the
// table-chunk format (< 296).
var ErrUnsupportedVersion = errors.New("savegame: unsupported version")

// ErrUnsupportedChunkShape is returned for a chunk type whose low nibble is
// neither RIFF, Table, nor SparseTable.
var ErrUnsupportedChunkShape = errors.New("savegame: unsupported chunk shape")

// ErrHeaderSizeMismatch is returned when a Table/SparseTable header does
// not consume exactly the number of bytes it declared.
var ErrHeaderSizeMismatch = errors.New("savegame: table header size mismatch")

// ErrRowSizeMismatch is returned when a Table/SparseTable row does not
// consume exactly the number of bytes it declared.
var ErrRowSizeMismatch = errors.New("savegame: table row size mismatch")

// ErrUnknownFieldType is returned for a field type byte this decoder does
// not know how to skip or retain.
var ErrUnknownFieldType = errors.New("savegame: unknown field type")

// ErrCompanyNotFound is returned when no PLYR row matches the configured
// company name.
var ErrCompanyNotFound = errors.New("savegame: company not found")

// MinSupportedVersion is the lowest savegame version this decoder accepts;
// earlier versions predate the RIFF/Table/SparseTable chunk format.
const MinSupportedVersion = 296
