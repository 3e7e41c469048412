// Package asset defines the binary asset formats read by the kai engine runtime loader.
//
// Every asset file starts with a little-endian uint32 Type tag. The layout of each
// header here is shared with the engine's native struct definitions and must change
// in lockstep with them.
package asset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Asset format errors.
var (
	ErrTruncatedHeader = errors.New("truncated asset header")
	ErrWrongAssetType  = errors.New("unexpected asset type")
	ErrInvalidHeader   = errors.New("inconsistent asset header")
)

// Type identifies the kind of asset stored in a file.
type Type uint32

// Asset type tags.
const (
	TypeUnknown Type = 0
	TypeTexture Type = 1
	TypeMesh    Type = 2
)

// String returns a human-readable asset type name.
func (t Type) String() string {
	switch t {
	case TypeUnknown:
		return "Unknown"
	case TypeTexture:
		return "Texture"
	case TypeMesh:
		return "Mesh"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

// PeekType reads the leading type tag without consuming anything else.
func PeekType(data []byte) (Type, error) {
	if len(data) < 4 {
		return TypeUnknown, fmt.Errorf("%w: need 4 bytes for type tag, have %d", ErrTruncatedHeader, len(data))
	}
	return Type(binary.LittleEndian.Uint32(data)), nil
}

// File is a decoded asset file: one of Mesh or Texture is set.
type File struct {
	Type    Type
	Mesh    *Mesh
	Texture *Texture
}

// Decode parses any supported asset from raw bytes, dispatching on the type tag.
func Decode(data []byte) (*File, error) {
	t, err := PeekType(data)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeMesh:
		m, err := DecodeMesh(data)
		if err != nil {
			return nil, err
		}
		return &File{Type: t, Mesh: m}, nil
	case TypeTexture:
		tex, err := DecodeTexture(data)
		if err != nil {
			return nil, err
		}
		return &File{Type: t, Texture: tex}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrWrongAssetType, t)
	}
}

// DecodeFile reads and decodes an asset file from disk.
func DecodeFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset file: %w", err)
	}
	return Decode(data)
}

// writeAll writes each part to w in order.
func writeAll(w io.Writer, parts ...[]byte) (int64, error) {
	var total int64
	for _, p := range parts {
		n, err := w.Write(p)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
