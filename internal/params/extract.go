// Package params extracts typed values from the untyped key-value form of an
// inbound query. Each helper applies cast, validation, and default/omission
// policy for a single named parameter and has no other side effects.
package params

import (
	"strconv"
	"time"

	"trajectory-service/internal/apierrors"
)

// Values is the raw query parameter set of one request.
type Values map[string]string

// Float extracts a required float64 parameter. A nil validator accepts any
// parsed value.
func Float(data Values, name string, validator func(float64) bool) (float64, error) {
	raw, ok := data[name]
	if !ok {
		return 0, apierrors.MissingParameter(name)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apierrors.UnparseableParameter(name, raw)
	}
	if validator != nil && !validator(value) {
		return 0, apierrors.InvalidParameter(name, raw)
	}
	return value, nil
}

// OptionalFloat extracts a float64 parameter that may be absent. Absence
// yields nil; a present but unparseable value is still an error.
func OptionalFloat(data Values, name string) (*float64, error) {
	raw, ok := data[name]
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apierrors.UnparseableParameter(name, raw)
	}
	return &value, nil
}

// String extracts a string parameter, substituting def when absent. A nil
// validator accepts any value.
func String(data Values, name, def string, validator func(string) bool) (string, error) {
	raw, ok := data[name]
	if !ok {
		return def, nil
	}
	if validator != nil && !validator(raw) {
		return "", apierrors.InvalidParameter(name, raw)
	}
	return raw, nil
}

// Time extracts a required RFC3339 instant. A nil validator accepts any
// parsed instant.
func Time(data Values, name string, validator func(time.Time) bool) (time.Time, error) {
	raw, ok := data[name]
	if !ok {
		return time.Time{}, apierrors.MissingParameter(name)
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apierrors.UnparseableParameter(name, raw)
	}
	if validator != nil && !validator(value) {
		return time.Time{}, apierrors.InvalidParameter(name, raw)
	}
	return value, nil
}

// TimeOrKeyword extracts a parameter that is either an RFC3339 instant or the
// given sentinel keyword. Absence defaults to the keyword. The boolean result
// reports whether the keyword applies.
func TimeOrKeyword(data Values, name, keyword string) (time.Time, bool, error) {
	raw, ok := data[name]
	if !ok || raw == keyword {
		return time.Time{}, true, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, apierrors.UnparseableParameter(name, raw)
	}
	return value, false, nil
}
