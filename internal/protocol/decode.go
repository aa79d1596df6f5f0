package protocol

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Decode parses one complete encoded message using DefaultLimits.
func Decode(block []byte) (*Message, error) {
	return DecodeWithLimits(block, DefaultLimits())
}

// DecodeWithLimits parses block, which must hold exactly one message.
// When a name repeats, the last value wins and keeps the position of the
// first occurrence.
func DecodeWithLimits(block []byte, limits Limits) (*Message, error) {
	r := bytes.NewReader(block)
	msg := &Message{}
	records := 0
	for r.Len() > 0 {
		offset := len(block) - r.Len()
		if limits.MaxFields > 0 && records >= limits.MaxFields {
			return nil, &FieldError{Offset: offset, Err: fmt.Errorf("%w: limit %d", ErrTooManyFields, limits.MaxFields)}
		}
		f, err := decodeField(r, limits)
		if err != nil {
			return nil, &FieldError{Name: f.Name, Offset: offset, Err: err}
		}
		msg.Set(f)
		records++
	}
	return msg, nil
}

// decodeField returns the partially decoded field alongside any error so the
// caller can report the name.
func decodeField(r *bytes.Reader, limits Limits) (Field, error) {
	name, err := readPrefixed(r, limits)
	if err != nil {
		return Field{}, err
	}
	if !utf8.Valid(name) {
		return Field{}, fmt.Errorf("%w: field name", ErrEncoding)
	}
	f := Field{Name: string(name)}

	tag, err := r.ReadByte()
	if err != nil {
		return f, ErrTruncated
	}
	f.Type = Type(tag)
	if !f.Type.Valid() {
		return f, fmt.Errorf("%w: %d", ErrUnknownType, tag)
	}

	v, _, err := DecodeScalar(r, f.Type, limits)
	if err != nil {
		return f, err
	}
	f.Value = v
	return f, nil
}
