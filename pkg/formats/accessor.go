package formats

import (
	"errors"
	"fmt"
)

// Accessor tag errors.
var (
	ErrUnknownAccessorType  = errors.New("unknown accessor type")
	ErrUnknownComponentType = errors.New("unknown accessor component type")
)

// AccessorType is the element shape of an accessor.
type AccessorType string

// Accessor type values.
const (
	Scalar AccessorType = "SCALAR"
	Vec2   AccessorType = "VEC2"
	Vec3   AccessorType = "VEC3"
	Vec4   AccessorType = "VEC4"
	Mat2   AccessorType = "MAT2"
	Mat3   AccessorType = "MAT3"
	Mat4   AccessorType = "MAT4"
)

// ComponentType is the numeric encoding of one accessor component.
type ComponentType int

// Component type codes.
const (
	Byte          ComponentType = 5120
	UnsignedByte  ComponentType = 5121
	Short         ComponentType = 5122
	UnsignedShort ComponentType = 5123
	UnsignedInt   ComponentType = 5125
	Float         ComponentType = 5126
)

// String returns the glTF name of the component type.
func (c ComponentType) String() string {
	switch c {
	case Byte:
		return "BYTE"
	case UnsignedByte:
		return "UNSIGNED_BYTE"
	case Short:
		return "SHORT"
	case UnsignedShort:
		return "UNSIGNED_SHORT"
	case UnsignedInt:
		return "UNSIGNED_INT"
	case Float:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// IsUnsignedInteger returns true for the component types valid in an index accessor.
func (c ComponentType) IsUnsignedInteger() bool {
	return c == UnsignedByte || c == UnsignedShort || c == UnsignedInt
}

// ElementCount returns the number of components in one element of the given type.
func ElementCount(t AccessorType) (int, error) {
	switch t {
	case Scalar:
		return 1, nil
	case Vec2:
		return 2, nil
	case Vec3:
		return 3, nil
	case Vec4, Mat2:
		return 4, nil
	case Mat3:
		return 9, nil
	case Mat4:
		return 16, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAccessorType, string(t))
	}
}

// ComponentSize returns the byte width of one component.
func ComponentSize(c ComponentType) (int, error) {
	switch c {
	case Byte, UnsignedByte:
		return 1, nil
	case Short, UnsignedShort:
		return 2, nil
	case UnsignedInt, Float:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownComponentType, int(c))
	}
}

// ElementSize returns the byte size of one element of the accessor.
func (a *Accessor) ElementSize() (int, error) {
	n, err := ElementCount(a.Type)
	if err != nil {
		return 0, err
	}
	size, err := ComponentSize(a.ComponentType)
	if err != nil {
		return 0, err
	}
	return n * size, nil
}
