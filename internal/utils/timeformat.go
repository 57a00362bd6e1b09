package utils

import "time"

// DatasetHourLayout renders a dataset's canonical hour-truncated timestamp.
const DatasetHourLayout = "2006-01-02T15:00:00Z"

// ToRFC3339 re-encodes an instant to the wire timestamp format.
func ToRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// HourTruncate forces minutes, seconds, and smaller units to zero.
func HourTruncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// FormatDatasetHour renders the hour-truncated wire form of a dataset time.
func FormatDatasetHour(t time.Time) string {
	return t.UTC().Format(DatasetHourLayout)
}
