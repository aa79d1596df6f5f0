package protocol

import "fmt"

// Int64 creates an int64 field.
func Int64(name string, v int64) Field {
	return Field{Name: name, Type: TypeInt64, Value: v}
}

// Uint64 creates a uint64 field.
func Uint64(name string, v uint64) Field {
	return Field{Name: name, Type: TypeUint64, Value: v}
}

// Float creates a float field. The value is sent as IEEE-754 single precision.
func Float(name string, v float32) Field {
	return Field{Name: name, Type: TypeFloat, Value: v}
}

// String creates a string field.
func String(name string, v string) Field {
	return Field{Name: name, Type: TypeString, Value: v}
}

// Binary creates a binary field holding a copy of v.
func Binary(name string, v []byte) Field {
	buf := make([]byte, len(v))
	copy(buf, v)
	return Field{Name: name, Type: TypeBinary, Value: buf}
}

// Int64 returns the named field value as int64.
func (m *Message) Int64(name string) (int64, error) {
	f, err := m.typed(name, TypeInt64)
	if err != nil {
		return 0, err
	}
	return toInt64(f.Value)
}

// Uint64 returns the named field value as uint64.
func (m *Message) Uint64(name string) (uint64, error) {
	f, err := m.typed(name, TypeUint64)
	if err != nil {
		return 0, err
	}
	return toUint64(f.Value)
}

// Float returns the named field value as float32.
func (m *Message) Float(name string) (float32, error) {
	f, err := m.typed(name, TypeFloat)
	if err != nil {
		return 0, err
	}
	return toFloat32(f.Value)
}

// String returns the named field value as string.
func (m *Message) String(name string) (string, error) {
	f, err := m.typed(name, TypeString)
	if err != nil {
		return "", err
	}
	s, ok := f.Value.(string)
	if !ok {
		return "", mismatch(TypeString, f.Value)
	}
	return s, nil
}

// Binary returns a copy of the named field value.
func (m *Message) Binary(name string) ([]byte, error) {
	f, err := m.typed(name, TypeBinary)
	if err != nil {
		return nil, err
	}
	b, ok := f.Value.([]byte)
	if !ok {
		return nil, mismatch(TypeBinary, f.Value)
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	return buf, nil
}

// SetNested encodes child and stores it as the binary field name.
func (m *Message) SetNested(name string, child *Message) error {
	b, err := Encode(child)
	if err != nil {
		return fmt.Errorf("protocol: nested %q: %w", name, err)
	}
	m.Set(Field{Name: name, Type: TypeBinary, Value: b})
	return nil
}

// Nested decodes the binary field name as a message. The format carries no
// marker for nested payloads, so this only makes sense where the sender put
// an encoded message there.
func (m *Message) Nested(name string) (*Message, error) {
	return m.NestedWithLimits(name, DefaultLimits())
}

// NestedWithLimits is Nested with explicit decode caps.
func (m *Message) NestedWithLimits(name string, limits Limits) (*Message, error) {
	f, err := m.typed(name, TypeBinary)
	if err != nil {
		return nil, err
	}
	b, ok := f.Value.([]byte)
	if !ok {
		return nil, mismatch(TypeBinary, f.Value)
	}
	child, err := DecodeWithLimits(b, limits)
	if err != nil {
		return nil, fmt.Errorf("protocol: nested %q: %w", name, err)
	}
	return child, nil
}

func (m *Message) typed(name string, want Type) (Field, error) {
	f, ok := m.Get(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	if f.Type != want {
		return Field{}, fmt.Errorf("%w: %q is %s, not %s", ErrTypeMismatch, name, f.Type, want)
	}
	return f, nil
}
