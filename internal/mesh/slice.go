// Package mesh turns a validated glTF primitive into the engine's interleaved mesh asset.
package mesh

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/kai-engine/assetbake/pkg/formats"
)

// Mesh building errors.
var (
	ErrSliceOutOfRange      = errors.New("byte range outside raw buffer")
	ErrVertexCountMismatch  = errors.New("vertex attributes have different element counts")
	ErrInvalidIndexAccessor = errors.New("index accessor must be SCALAR with an unsigned integer component type")
	ErrMeshTooLarge         = errors.New("mesh does not fit the 32-bit header fields")
)

// SliceView returns a copy of the bytes of the buffer view that the accessor
// at accessorIndex points into.
func SliceView(doc *formats.Document, blob []byte, accessorIndex int) ([]byte, error) {
	acc, err := doc.Accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	bv, err := doc.BufferViewOf(acc)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", accessorIndex, err)
	}
	if bv.Buffer != 0 {
		return nil, fmt.Errorf("%w: accessor %d uses buffer %d", formats.ErrInvalidReference, accessorIndex, bv.Buffer)
	}

	if !fits(len(blob), bv.ByteOffset, 1, bv.ByteLength, bv.ByteLength) {
		return nil, fmt.Errorf("%w: accessor %d wants %d bytes at %d, buffer has %d bytes",
			ErrSliceOutOfRange, accessorIndex, bv.ByteLength, bv.ByteOffset, len(blob))
	}

	return bytes.Clone(blob[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]), nil
}

// fits reports whether count elements of elemSize bytes, stride bytes apart
// and starting at offset, lie within length bytes. The check cannot overflow.
func fits(length, offset, count, stride, elemSize int) bool {
	switch {
	case count < 0, offset < 0, elemSize < 0, offset > length:
		return false
	case count == 0:
		return true
	case elemSize > length-offset:
		return false
	case count == 1:
		return true
	case stride <= 0:
		return false
	}
	return count-1 <= (length-offset-elemSize)/stride
}

// Stream is one vertex attribute sliced out of the raw buffer.
type Stream struct {
	Name          string
	Type          formats.AccessorType
	ComponentType formats.ComponentType
	Count         int
	ElementSize   int

	data   []byte
	offset int // accessor byteOffset within data
	stride int // distance between consecutive elements in data
}

func newStream(doc *formats.Document, blob []byte, attr formats.Attribute) (*Stream, error) {
	view, err := SliceView(doc, blob, attr.Accessor)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", attr.Name, err)
	}

	acc, _ := doc.Accessor(attr.Accessor)
	bv, _ := doc.BufferViewOf(acc)

	elemSize, err := acc.ElementSize()
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", attr.Name, err)
	}

	stride := elemSize
	if bv.ByteStride != 0 {
		if bv.ByteStride < elemSize {
			return nil, fmt.Errorf("%w: attribute %s byteStride %d smaller than element size %d",
				formats.ErrMalformedDocument, attr.Name, bv.ByteStride, elemSize)
		}
		stride = bv.ByteStride
	}

	s := &Stream{
		Name:          attr.Name,
		Type:          acc.Type,
		ComponentType: acc.ComponentType,
		Count:         acc.Count,
		ElementSize:   elemSize,
		data:          view,
		offset:        acc.ByteOffset,
		stride:        stride,
	}

	if !fits(len(view), s.offset, s.Count, s.stride, s.ElementSize) {
		return nil, fmt.Errorf("%w: attribute %s has %d elements of %d bytes at offset %d stride %d, view has %d bytes",
			ErrSliceOutOfRange, attr.Name, s.Count, s.ElementSize, s.offset, s.stride, len(view))
	}

	return s, nil
}

// Element returns the bytes of element i. Elements past the attribute's own
// count are returned as zeros.
func (s *Stream) Element(i int) []byte {
	if i >= s.Count {
		return make([]byte, s.ElementSize)
	}
	start := s.offset + i*s.stride
	return s.data[start : start+s.ElementSize]
}
