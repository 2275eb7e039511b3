package gml

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTimePosition signals a time element without the required gml:timePosition.
	ErrMissingTimePosition = errors.New("gml time position missing")
	// ErrUnsupportedReferenceFrame signals a frame attribute that is not an ISO 8601 profile.
	ErrUnsupportedReferenceFrame = errors.New("unsupported temporal reference frame")
	// ErrInvalidInstantFormat signals time position text that is not an ISO 8601 date-time with offset.
	ErrInvalidInstantFormat = errors.New("not an ISO instant")
	// ErrUnrecognizedTimeShape is only returned in strict shape mode.
	ErrUnrecognizedTimeShape = errors.New("unrecognized gml time shape")
	// ErrMalformedDocument signals input that could not be read as XML.
	ErrMalformedDocument = errors.New("malformed gml document")
)

// MissingTimePositionError reports which time position could not be found.
type MissingTimePositionError struct {
	Element string
	Index   int
}

func (e *MissingTimePositionError) Error() string {
	return fmt.Sprintf("%s: %s has no gml:timePosition at index %d", ErrMissingTimePosition, e.Element, e.Index)
}

func (e *MissingTimePositionError) Unwrap() error { return ErrMissingTimePosition }

// UnsupportedReferenceFrameError carries the rejected frame value.
type UnsupportedReferenceFrameError struct {
	Frame string
}

func (e *UnsupportedReferenceFrameError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedReferenceFrame, e.Frame)
}

func (e *UnsupportedReferenceFrameError) Unwrap() error { return ErrUnsupportedReferenceFrame }

// InvalidInstantFormatError carries the offending time position text verbatim.
type InvalidInstantFormatError struct {
	Text string
}

func (e *InvalidInstantFormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInstantFormat, e.Text)
}

func (e *InvalidInstantFormatError) Unwrap() error { return ErrInvalidInstantFormat }

// UnrecognizedTimeShapeError carries the element name that matched no known shape.
type UnrecognizedTimeShapeError struct {
	Name string
}

func (e *UnrecognizedTimeShapeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnrecognizedTimeShape, e.Name)
}

func (e *UnrecognizedTimeShapeError) Unwrap() error { return ErrUnrecognizedTimeShape }
