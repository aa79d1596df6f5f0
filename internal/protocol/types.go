package protocol

import "fmt"

// Type is the one-byte wire tag selecting a scalar encoding.
type Type uint8

// Wire tag values. These are stable across implementations.
const (
	TypeInt64  Type = 1
	TypeUint64 Type = 2
	TypeFloat  Type = 3
	TypeString Type = 4
	TypeBinary Type = 5
)

const (
	lengthPrefixSize = 4
	tagSize          = 1
)

// Valid reports whether t is one of the assigned tags.
func (t Type) Valid() bool {
	return t >= TypeInt64 && t <= TypeBinary
}

// FixedSize returns the payload width of fixed types and 0 for variable ones.
func (t Type) FixedSize() int {
	switch t {
	case TypeInt64, TypeUint64:
		return 8
	case TypeFloat:
		return 4
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binary"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseType maps a type name back to its tag.
func ParseType(name string) (Type, error) {
	switch name {
	case "int64":
		return TypeInt64, nil
	case "uint64":
		return TypeUint64, nil
	case "float":
		return TypeFloat, nil
	case "string":
		return TypeString, nil
	case "binary":
		return TypeBinary, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

// Field is one named, typed value within a message.
type Field struct {
	Name  string
	Type  Type
	Value any
}

// Limits constrains decode memory use. Zero values disable a check.
type Limits struct {
	MaxValueBytes uint32
	MaxFields     int
}

// DefaultLimits caps values at 4 MiB and messages at 65536 fields.
func DefaultLimits() Limits {
	return Limits{
		MaxValueBytes: 4 * 1024 * 1024,
		MaxFields:     64 * 1024,
	}
}
