package colorbook

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ParseError and RenderError.
var (
	// ErrMalformed reports a template document that is not well-formed XML.
	ErrMalformed = errors.New("colorbook: malformed template document")

	// ErrNoRoot reports a template document without an <svg> root element.
	ErrNoRoot = errors.New("colorbook: template has no svg root")

	// ErrMissingAttribute reports a shape without a required geometry attribute.
	ErrMissingAttribute = errors.New("colorbook: missing required attribute")

	// ErrInvalidValue reports an attribute whose value cannot be parsed.
	ErrInvalidValue = errors.New("colorbook: invalid attribute value")

	// ErrUnsupportedShape reports an element that cannot be rasterized.
	ErrUnsupportedShape = errors.New("colorbook: unsupported shape")

	// ErrEmptyCanvas reports an export whose target bitmap has no pixels.
	ErrEmptyCanvas = errors.New("colorbook: empty canvas")

	// ErrCanvasTooLarge reports an export whose target bitmap exceeds the
	// pixel limit.
	ErrCanvasTooLarge = errors.New("colorbook: canvas too large")
)

// ParseError is returned when a template document cannot be loaded.
type ParseError struct {
	// Element is the SVG element being parsed, e.g. "rect".
	Element string
	// Attr is the offending attribute, if any.
	Attr string
	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	switch {
	case e.Element != "" && e.Attr != "":
		return fmt.Sprintf("colorbook: parse <%s %s>: %v", e.Element, e.Attr, e.Err)
	case e.Element != "":
		return fmt.Sprintf("colorbook: parse <%s>: %v", e.Element, e.Err)
	default:
		return fmt.Sprintf("colorbook: parse: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError is returned when a surface cannot be rasterized or encoded.
// A failed export never produces a blank image.
type RenderError struct {
	// Element names the shape that failed, if the failure is shape-specific.
	Element string
	// Err is the underlying cause.
	Err error
}

func (e *RenderError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("colorbook: render <%s>: %v", e.Element, e.Err)
	}
	return fmt.Sprintf("colorbook: render: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
