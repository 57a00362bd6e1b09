package dataset

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

// WriteGridFile writes a dataset file containing a uniform wind field with
// the given grid dimensions. Ingest tooling and tests use it to produce
// dataset files in the on-disk layout loadGrid expects.
func WriteGridFile(path string, hours, levels, lats, lons int, u, v float32) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create dataset file")
	}
	defer f.Close()

	if _, err := f.Write([]byte(gridMagic)); err != nil {
		return errors.Wrap(err, "could not write dataset header")
	}
	dims := [4]uint32{uint32(hours), uint32(levels), uint32(lats), uint32(lons)}
	if err := binary.Write(f, binary.LittleEndian, &dims); err != nil {
		return errors.Wrap(err, "could not write grid dimensions")
	}

	data := make([]float32, hours*levels*lats*lons*2)
	for i := 0; i < len(data); i += 2 {
		data[i] = u
		data[i+1] = v
	}
	if err := binary.Write(f, binary.LittleEndian, data); err != nil {
		return errors.Wrap(err, "could not write grid data")
	}
	return nil
}
