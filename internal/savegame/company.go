package savegame

import (
	"bytes"
	"fmt"
	"os"
)

// FindCompanyIndex returns the index of the first PLYR row whose "name"
// field equals the given UTF-8 company name, or ErrCompanyNotFound.
func (c *Container) FindCompanyIndex(name string) (int, error) {
	plyr, ok := c.Chunks["PLYR"]
	if !ok || plyr.Shape != ShapeTable {
		return 0, ErrCompanyNotFound
	}
	want := []byte(name)
	for i, row := range plyr.Rows {
		if v, ok := row["name"]; ok && bytes.Equal(v, want) {
			return i, nil
		}
	}
	return 0, ErrCompanyNotFound
}

// Dump writes a human-readable summary of every decoded chunk to path, for
// offline inspection (bot.saveload_dump_file).
func (c *Container) Dump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for tag, chunk := range c.Chunks {
		switch chunk.Shape {
		case ShapeRIFF:
			fmt.Fprintf(f, "%s: RIFF %d bytes\n", tag, len(chunk.RIFFData))
		case ShapeTable:
			fmt.Fprintf(f, "%s: Table %d rows\n", tag, len(chunk.Rows))
			for i, row := range chunk.Rows {
				for k, v := range row {
					fmt.Fprintf(f, "  [%d] %s = %q\n", i, k, v)
				}
			}
		case ShapeSparseTable:
			fmt.Fprintf(f, "%s: SparseTable %d rows\n", tag, len(chunk.SparseRows))
			for idx, row := range chunk.SparseRows {
				for k, v := range row {
					fmt.Fprintf(f, "  [%d] %s = %q\n", idx, k, v)
				}
			}
		}
	}
	return nil
}
