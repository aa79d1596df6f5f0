package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"unicode/utf8"
)

// EncodeScalar returns the wire bytes of v encoded as t.
func EncodeScalar(t Type, v any) ([]byte, error) {
	return AppendScalar(nil, t, v)
}

// AppendScalar appends the wire bytes of v encoded as t to dst. On error dst
// is returned unchanged.
func AppendScalar(dst []byte, t Type, v any) ([]byte, error) {
	switch t {
	case TypeInt64:
		n, err := toInt64(v)
		if err != nil {
			return dst, err
		}
		return binary.BigEndian.AppendUint64(dst, uint64(n)), nil
	case TypeUint64:
		n, err := toUint64(v)
		if err != nil {
			return dst, err
		}
		return binary.BigEndian.AppendUint64(dst, n), nil
	case TypeFloat:
		f, err := toFloat32(v)
		if err != nil {
			return dst, err
		}
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(f)), nil
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return dst, mismatch(t, v)
		}
		if !utf8.ValidString(s) {
			return dst, ErrEncoding
		}
		return appendPrefixed(dst, []byte(s))
	case TypeBinary:
		b, ok := v.([]byte)
		if !ok {
			return dst, mismatch(t, v)
		}
		return appendPrefixed(dst, b)
	default:
		return dst, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
}

func appendPrefixed(dst, b []byte) ([]byte, error) {
	if uint64(len(b)) > math.MaxUint32 {
		return dst, fmt.Errorf("%w: length %d exceeds 32-bit prefix", ErrRange, len(b))
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(b)))
	return append(dst, b...), nil
}

// DecodeScalar reads one value of type t from r and reports how many bytes
// it consumed. Values are returned as int64, uint64, float32, string or []byte.
func DecodeScalar(r io.Reader, t Type, limits Limits) (any, int, error) {
	if size := t.FixedSize(); size > 0 {
		var buf [8]byte
		if err := readFull(r, buf[:size]); err != nil {
			return nil, 0, err
		}
		switch t {
		case TypeInt64:
			return int64(binary.BigEndian.Uint64(buf[:8])), size, nil
		case TypeUint64:
			return binary.BigEndian.Uint64(buf[:8]), size, nil
		default:
			return math.Float32frombits(binary.BigEndian.Uint32(buf[:4])), size, nil
		}
	}
	if !t.Valid() {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}

	b, err := readPrefixed(r, limits)
	if err != nil {
		return nil, 0, err
	}
	n := lengthPrefixSize + len(b)
	if t == TypeString {
		if !utf8.Valid(b) {
			return nil, 0, ErrEncoding
		}
		return string(b), n, nil
	}
	return b, n, nil
}

// lenReader is satisfied by bytes.Reader and friends. It lets a declared
// length be checked against what is actually buffered before allocating.
type lenReader interface {
	Len() int
}

func readPrefixed(r io.Reader, limits Limits) ([]byte, error) {
	var prefix [lengthPrefixSize]byte
	if err := readFull(r, prefix[:]); err != nil {
		return nil, err
	}
	l := binary.BigEndian.Uint32(prefix[:])
	if limits.MaxValueBytes > 0 && l > limits.MaxValueBytes {
		return nil, fmt.Errorf("%w: length %d exceeds limit %d", ErrRange, l, limits.MaxValueBytes)
	}
	if lr, ok := r.(lenReader); ok && uint64(l) > uint64(lr.Len()) {
		return nil, fmt.Errorf("%w: length %d, %d bytes remain", ErrTruncated, l, lr.Len())
	}
	buf := make([]byte, l)
	if err := readFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return err
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d does not fit int64", ErrRange, n)
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d does not fit int64", ErrRange, n)
		}
		return int64(n), nil
	case *big.Int:
		if n == nil {
			return 0, mismatch(TypeInt64, v)
		}
		if !n.IsInt64() {
			return 0, fmt.Errorf("%w: %s does not fit int64", ErrRange, n)
		}
		return n.Int64(), nil
	default:
		return 0, mismatch(TypeInt64, v)
	}
}

func toUint64(v any) (uint64, error) {
	var signed int64
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case int:
		signed = int64(n)
	case int8:
		signed = int64(n)
	case int16:
		signed = int64(n)
	case int32:
		signed = int64(n)
	case int64:
		signed = n
	case *big.Int:
		if n == nil {
			return 0, mismatch(TypeUint64, v)
		}
		if !n.IsUint64() {
			return 0, fmt.Errorf("%w: %s does not fit uint64", ErrRange, n)
		}
		return n.Uint64(), nil
	default:
		return 0, mismatch(TypeUint64, v)
	}
	if signed < 0 {
		return 0, fmt.Errorf("%w: %d does not fit uint64", ErrRange, signed)
	}
	return uint64(signed), nil
}

// float64 is narrowed with IEEE-754 rounding; overflow becomes ±Inf.
func toFloat32(v any) (float32, error) {
	switch f := v.(type) {
	case float32:
		return f, nil
	case float64:
		return float32(f), nil
	default:
		return 0, mismatch(TypeFloat, v)
	}
}

func mismatch(t Type, v any) error {
	return fmt.Errorf("%w: %T is not %s", ErrTypeMismatch, v, t)
}
