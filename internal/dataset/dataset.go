// Package dataset resolves and reads versioned wind datasets. Datasets live
// in a flat directory, one file per forecast run, named by the run's
// hour-truncated timestamp (YYYYMMDDHH).
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"trajectory-service/internal/models"
)

// FilenameLayout is the dataset filename convention, e.g. "2024010112".
const FilenameLayout = "2006010215"

// DefaultDirectory is used when no dataset directory is configured.
const DefaultDirectory = "/srv/trajectory-datasets"

var (
	// ErrNotFound reports that no dataset matches the request.
	ErrNotFound = errors.New("no matching dataset found")
	// ErrInvalid reports a dataset that exists but cannot be used.
	ErrInvalid = errors.New("dataset is not usable")
)

// Dataset is a handle to one resolved wind dataset. Time is the canonical
// hour-truncated timestamp of the forecast run. The sampled wind grid is
// loaded lazily on first lookup; a handle is safe for concurrent use.
type Dataset struct {
	Time time.Time
	Path string

	loadOnce sync.Once
	grid     *windGrid
	loadErr  error
}

// Open resolves the dataset covering the given instant. The instant is
// truncated to the hour before matching.
func Open(t time.Time, dir string) (*Dataset, error) {
	dsTime := t.UTC().Truncate(time.Hour)
	path := filepath.Join(dir, dsTime.Format(FilenameLayout))
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	if info.IsDir() {
		return nil, errors.Wrap(ErrInvalid, "dataset path is a directory")
	}
	return &Dataset{Time: dsTime, Path: path}, nil
}

// OpenLatest resolves the most recent dataset available in dir. Files whose
// names do not parse as dataset timestamps are ignored.
func OpenLatest(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ErrNotFound
	}

	var times []time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		t, err := time.Parse(FilenameLayout, entry.Name())
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	if len(times) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	latest := times[len(times)-1]
	return &Dataset{
		Time: latest,
		Path: filepath.Join(dir, latest.Format(FilenameLayout)),
	}, nil
}

// Wind samples the dataset's wind field at the given instant and position,
// returning eastward and northward components in m/s. Out-of-range lookups
// are clamped to the grid edge and counted into warnings rather than failing;
// an unreadable grid yields calm air and a dataset error count.
func (d *Dataset) Wind(at time.Time, lat, lon, alt float64, warnings *models.WarningCounts) (u, v float64) {
	d.loadOnce.Do(func() {
		d.grid, d.loadErr = loadGrid(d.Path)
	})
	if d.loadErr != nil {
		warnings.DatasetErrors++
		return 0, 0
	}
	return d.grid.sample(at.Sub(d.Time), lat, lon, alt, warnings)
}
