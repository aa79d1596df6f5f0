package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrRange          = errors.New("protocol: value out of range")
	ErrEncoding       = errors.New("protocol: invalid utf-8")
	ErrTruncated      = errors.New("protocol: truncated data")
	ErrUnknownType    = errors.New("protocol: unknown type tag")
	ErrEndOfStream    = errors.New("protocol: end of stream")
	ErrTypeMismatch   = errors.New("protocol: field type mismatch")
	ErrDuplicateField = errors.New("protocol: duplicate field name")
	ErrFieldNotFound  = errors.New("protocol: field not found")
	ErrTooManyFields  = errors.New("protocol: too many fields")
	ErrNilMessage     = errors.New("protocol: nil message")
)

// FieldError locates a codec failure within a message.
type FieldError struct {
	Name   string
	Offset int
	Err    error
}

func (e *FieldError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("protocol: field at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("protocol: field %q at offset %d: %v", e.Name, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
