package dataset

import (
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"trajectory-service/internal/models"
)

// Dataset files hold a sampled wind field: the magic "TWND", four uint32 grid
// dimensions (hours, levels, latitudes, longitudes), then little-endian
// float32 (u, v) pairs in row-major [hour][level][latitude][longitude] order.
// The grid covers the forecast window at gridHourStep spacing, altitudes from
// zero to gridAltitudeTop, latitudes -90..90, and longitudes 0..360.
const (
	gridMagic       = "TWND"
	gridHourStep    = 3 * time.Hour
	gridAltitudeTop = 40000.0
)

type windGrid struct {
	hours  int
	levels int
	lats   int
	lons   int
	data   []float32 // u, v interleaved
}

func loadGrid(path string) (*windGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open dataset file")
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, errors.Wrap(err, "could not read dataset header")
	}
	if string(magic[:]) != gridMagic {
		return nil, errors.New("dataset file has no wind grid header")
	}

	var dims [4]uint32
	if err := binary.Read(f, binary.LittleEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "could not read grid dimensions")
	}
	g := &windGrid{
		hours:  int(dims[0]),
		levels: int(dims[1]),
		lats:   int(dims[2]),
		lons:   int(dims[3]),
	}
	if g.hours < 1 || g.levels < 1 || g.lats < 2 || g.lons < 1 {
		return nil, errors.New("grid dimensions out of range")
	}

	count := g.hours * g.levels * g.lats * g.lons * 2
	g.data = make([]float32, count)
	if err := binary.Read(f, binary.LittleEndian, &g.data); err != nil {
		return nil, errors.Wrap(err, "could not read grid data")
	}
	return g, nil
}

// sample returns the nearest grid value for the given offset into the
// forecast window and position. Coordinates outside the grid are clamped and
// counted as out-of-range lookups.
func (g *windGrid) sample(offset time.Duration, lat, lon, alt float64, warnings *models.WarningCounts) (u, v float64) {
	hour := int(offset / gridHourStep)
	if hour < 0 || hour >= g.hours {
		warnings.WindOutOfRange++
		hour = clampIndex(hour, g.hours)
	}

	level := int(alt / gridAltitudeTop * float64(g.levels))
	if level < 0 || level >= g.levels {
		warnings.AltitudeClamped++
		level = clampIndex(level, g.levels)
	}

	latIdx := int((lat + 90.0) / 180.0 * float64(g.lats-1))
	if latIdx < 0 || latIdx >= g.lats {
		warnings.WindOutOfRange++
		latIdx = clampIndex(latIdx, g.lats)
	}

	lonIdx := int(lon / 360.0 * float64(g.lons))
	if lonIdx < 0 || lonIdx >= g.lons {
		// Longitude is periodic, so wrap instead of clamping.
		lonIdx = ((lonIdx % g.lons) + g.lons) % g.lons
	}

	base := 2 * (((hour*g.levels+level)*g.lats+latIdx)*g.lons + lonIdx)
	return float64(g.data[base]), float64(g.data[base+1])
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
