package mesh

import (
	"fmt"

	"github.com/kai-engine/assetbake/pkg/formats"
)

// IndexData is the primitive's index buffer. The zero value describes a
// non-indexed primitive.
type IndexData struct {
	Count         int
	Size          int
	ComponentType formats.ComponentType
	Data          []byte
}

// ExtractIndices slices the primitive's index buffer, if it declares one.
func ExtractIndices(doc *formats.Document, blob []byte) (*IndexData, error) {
	prim := doc.Primitive()
	if prim.Indices == nil {
		return &IndexData{}, nil
	}

	acc, err := doc.Accessor(*prim.Indices)
	if err != nil {
		return nil, fmt.Errorf("indices: %w", err)
	}
	if acc.Type != formats.Scalar || !acc.ComponentType.IsUnsignedInteger() {
		return nil, fmt.Errorf("%w: got %s/%s", ErrInvalidIndexAccessor, acc.Type, acc.ComponentType)
	}

	view, err := SliceView(doc, blob, *prim.Indices)
	if err != nil {
		return nil, fmt.Errorf("indices: %w", err)
	}

	elemSize, err := acc.ElementSize()
	if err != nil {
		return nil, fmt.Errorf("indices: %w", err)
	}

	if !fits(len(view), acc.ByteOffset, acc.Count, elemSize, elemSize) {
		return nil, fmt.Errorf("%w: %d indices of %d bytes at offset %d, view has %d bytes",
			ErrSliceOutOfRange, acc.Count, elemSize, acc.ByteOffset, len(view))
	}
	size := acc.Count * elemSize
	end := acc.ByteOffset + size

	return &IndexData{
		Count:         acc.Count,
		Size:          size,
		ComponentType: acc.ComponentType,
		Data:          view[acc.ByteOffset:end],
	}, nil
}
