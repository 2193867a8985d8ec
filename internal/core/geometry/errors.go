package geometry

import (
	"errors"
	"fmt"
)

// Diagnostic codes carried by the errors of this package.
const (
	CodeInvalidJSON              = "invalid_json"
	CodeInvalidFeatureCollection = "invalid_feature_collection"
	CodeEditTargetNotFound       = "edit_target_not_found"
)

// ErrEditTargetNotFound is returned by ApplyDrawEdited when the original
// geometry is not in the collection. It is a soft inconsistency: the
// collection is returned unchanged.
var ErrEditTargetNotFound = errors.New("edited geometry not found in collection")

// ParseError means uploaded content was not JSON at all.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse uploaded geojson: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Code returns the diagnostic code.
func (e *ParseError) Code() string { return CodeInvalidJSON }

// ValidationError means uploaded JSON is not a usable FeatureCollection.
// Feature is the index of the offending feature, or -1 for the document itself.
type ValidationError struct {
	Feature int
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Feature < 0 {
		return "invalid feature collection: " + e.Reason
	}
	return fmt.Sprintf("invalid feature collection: feature %d: %s", e.Feature, e.Reason)
}

// Code returns the diagnostic code.
func (e *ValidationError) Code() string { return CodeInvalidFeatureCollection }

// Code extracts the diagnostic code from err, or "" if it has none.
func Code(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code()
	}
	if errors.Is(err, ErrEditTargetNotFound) {
		return CodeEditTargetNotFound
	}
	return ""
}
