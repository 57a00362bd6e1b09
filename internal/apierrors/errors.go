// Package apierrors defines the failure taxonomy of the prediction API and
// its mapping to HTTP status codes and wire error types.
package apierrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure inside the request pipeline.
type Kind string

const (
	KindMissingParameter  Kind = "missing_parameter"
	KindInvalidParameter  Kind = "invalid_parameter"
	KindUnknownProfile    Kind = "unknown_profile"
	KindNoMatchingDataset Kind = "no_matching_dataset"
	KindInvalidDataset    Kind = "invalid_dataset"
	KindPredictionFailed  Kind = "prediction_failed"
	KindInternal          Kind = "internal"
	KindNotImplemented    Kind = "not_implemented"
)

// APIError is a failure with a kind and a human-readable description. It is
// raised at the point of detection and propagates unmodified to the handler.
type APIError struct {
	Kind        Kind
	Description string
}

func (e *APIError) Error() string {
	return e.Description
}

// StatusCode maps the error kind to its HTTP status.
func (e *APIError) StatusCode() int {
	switch e.Kind {
	case KindMissingParameter, KindInvalidParameter, KindUnknownProfile:
		return fiber.StatusBadRequest
	case KindNoMatchingDataset, KindInvalidDataset:
		return fiber.StatusNotFound
	case KindNotImplemented:
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusInternalServerError
	}
}

// WireType is the error type string exposed in response bodies. The names
// match the ones long-established clients already parse.
func (e *APIError) WireType() string {
	switch e.Kind {
	case KindMissingParameter, KindInvalidParameter, KindUnknownProfile:
		return "RequestException"
	case KindNoMatchingDataset, KindInvalidDataset:
		return "InvalidDatasetException"
	case KindPredictionFailed:
		return "PredictionException"
	case KindNotImplemented:
		return "NotYetImplementedException"
	default:
		return "InternalException"
	}
}

// MissingParameter reports a required parameter absent from the request.
func MissingParameter(name string) *APIError {
	return &APIError{
		Kind:        KindMissingParameter,
		Description: fmt.Sprintf("Parameter '%s' not provided in request.", name),
	}
}

// UnparseableParameter reports a parameter whose raw value could not be cast.
func UnparseableParameter(name, raw string) *APIError {
	return &APIError{
		Kind:        KindInvalidParameter,
		Description: fmt.Sprintf("Unable to parse parameter '%s': %s.", name, raw),
	}
}

// InvalidParameter reports a parameter that parsed but failed validation.
func InvalidParameter(name, raw string) *APIError {
	return &APIError{
		Kind:        KindInvalidParameter,
		Description: fmt.Sprintf("Invalid value for parameter '%s': %s.", name, raw),
	}
}

// UnknownProfile reports an unrecognized flight profile value.
func UnknownProfile(value string) *APIError {
	return &APIError{
		Kind:        KindUnknownProfile,
		Description: fmt.Sprintf("Unknown profile '%s'.", value),
	}
}

// NoMatchingDataset reports that the dataset store has no usable dataset.
func NoMatchingDataset() *APIError {
	return &APIError{
		Kind:        KindNoMatchingDataset,
		Description: "No matching dataset found.",
	}
}

// InvalidDataset reports a dataset that exists but cannot be used.
func InvalidDataset(description string) *APIError {
	return &APIError{Kind: KindInvalidDataset, Description: description}
}

// PredictionFailed wraps any solver failure into the single external kind the
// orchestrator exposes. The inner error text is preserved for diagnostics.
func PredictionFailed(err error) *APIError {
	return &APIError{
		Kind:        KindPredictionFailed,
		Description: fmt.Sprintf("Prediction did not complete: '%s'.", err),
	}
}

// Internal reports an invariant violation inside the service itself.
func Internal(description string) *APIError {
	return &APIError{Kind: KindInternal, Description: description}
}

// NotImplemented reports a recognized but unimplemented feature.
func NotImplemented(description string) *APIError {
	return &APIError{Kind: KindNotImplemented, Description: description}
}

// From returns err as an *APIError, converting unclassified errors to the
// internal kind so every failure leaving the pipeline carries a status.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err.Error())
}
