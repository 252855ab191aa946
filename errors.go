package spff

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("spff: invalid dimensions")
	ErrTruncatedInput    = errors.New("spff: truncated input")
	ErrSizeMismatch      = errors.New("spff: payload size mismatch")
	ErrAllocation        = errors.New("spff: image too large to allocate")
)

// SizeError reports a payload whose length disagrees with the header.
// It matches ErrSizeMismatch, and ErrTruncatedInput when the payload is short.
type SizeError struct {
	Want int
	Got  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("spff: payload has %d bytes, header declares %d", e.Got, e.Want)
}

func (e *SizeError) Is(target error) bool {
	switch target {
	case ErrSizeMismatch:
		return true
	case ErrTruncatedInput:
		return e.Got < e.Want
	}
	return false
}
