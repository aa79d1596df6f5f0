package protocol

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Encode returns the wire bytes of msg. The block carries no overall length;
// pair it with a frame when writing to a stream.
func Encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	out := make([]byte, 0, encodedSizeHint(msg))
	for _, f := range msg.fields {
		start := len(out)
		var err error
		out, err = appendField(out, f)
		if err != nil {
			return nil, &FieldError{Name: f.Name, Offset: start, Err: err}
		}
	}
	return out, nil
}

// EncodeTo encodes msg and writes it to w in one call. Nothing is written if
// encoding fails.
func EncodeTo(w io.Writer, msg *Message) (int, error) {
	b, err := Encode(msg)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

func appendField(dst []byte, f Field) ([]byte, error) {
	if !utf8.ValidString(f.Name) {
		return dst, fmt.Errorf("%w: field name", ErrEncoding)
	}
	if !f.Type.Valid() {
		return dst, fmt.Errorf("%w: %d", ErrUnknownType, uint8(f.Type))
	}
	dst, err := appendPrefixed(dst, []byte(f.Name))
	if err != nil {
		return dst, err
	}
	dst = append(dst, byte(f.Type))
	return AppendScalar(dst, f.Type, f.Value)
}

func encodedSizeHint(msg *Message) int {
	n := 0
	for _, f := range msg.fields {
		n += lengthPrefixSize + len(f.Name) + tagSize
		if size := f.Type.FixedSize(); size > 0 {
			n += size
			continue
		}
		n += lengthPrefixSize
		switch v := f.Value.(type) {
		case string:
			n += len(v)
		case []byte:
			n += len(v)
		}
	}
	return n
}
