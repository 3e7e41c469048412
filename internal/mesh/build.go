package mesh

import (
	"encoding/binary"
	"fmt"
	stdmath "math"

	"github.com/kai-engine/assetbake/pkg/asset"
	"github.com/kai-engine/assetbake/pkg/formats"
	"github.com/kai-engine/assetbake/pkg/math"
)

// Result is a built mesh asset together with the intermediate data used to build it.
type Result struct {
	Asset   *asset.Mesh
	Layout  *Layout
	Indices *IndexData
}

// Build catalogs, interleaves and indexes the document's primitive and
// composes the mesh header describing the result.
func Build(doc *formats.Document, blob []byte, opts Options) (*Result, error) {
	layout, err := Catalog(doc, blob, opts)
	if err != nil {
		return nil, err
	}

	indices, err := ExtractIndices(doc, blob)
	if err != nil {
		return nil, err
	}

	// The header bounds the vertex buffer size, so compose it first.
	header, err := ComposeHeader(layout, indices)
	if err != nil {
		return nil, err
	}

	vertices := Interleave(layout)

	return &Result{
		Asset: &asset.Mesh{
			Header:   header,
			Vertices: vertices,
			Indices:  indices.Data,
		},
		Layout:  layout,
		Indices: indices,
	}, nil
}

// ComposeHeader computes the mesh header for a vertex layout and index buffer.
// Vertices start the payload; indices follow them directly.
func ComposeHeader(layout *Layout, indices *IndexData) (asset.MeshHeader, error) {
	vertexSize := uint64(layout.Stride) * uint64(layout.VertexCount)

	for name, v := range map[string]uint64{
		"vertex count":    uint64(layout.VertexCount),
		"vertex stride":   uint64(layout.Stride),
		"vertex size":     vertexSize,
		"index count":     uint64(indices.Count),
		"index size":      uint64(indices.Size),
		"texcoord offset": uint64(layout.TexcoordOffset),
	} {
		if v > stdmath.MaxUint32 {
			return asset.MeshHeader{}, fmt.Errorf("%w: %s is %d", ErrMeshTooLarge, name, v)
		}
	}

	return asset.MeshHeader{
		AssetType:    asset.TypeMesh,
		PayloadSize:  vertexSize + uint64(indices.Size),
		PayloadStart: asset.MeshHeaderSize,

		VertexCount:  uint32(layout.VertexCount),
		VertexStart:  0,
		VertexSize:   uint32(vertexSize),
		VertexStride: uint32(layout.Stride),

		IndexCount: uint32(indices.Count),
		IndexStart: uint32(vertexSize),
		IndexSize:  uint32(indices.Size),

		TexcoordCount:  uint32(len(layout.Texcoords)),
		TexcoordOffset: uint32(layout.TexcoordOffset),
	}, nil
}

// PositionBounds returns the axis-aligned bounds of the position attribute.
// ok is false when there is no VEC3/FLOAT position attribute to measure.
func PositionBounds(layout *Layout) (b math.Bounds, ok bool) {
	s := layout.Position
	if s == nil || s.Type != formats.Vec3 || s.ComponentType != formats.Float || s.Count == 0 {
		return math.Bounds{}, false
	}

	b = math.EmptyBounds()
	for i := 0; i < s.Count; i++ {
		e := s.Element(i)
		b = b.Extend(math.Vec3{
			X: stdmath.Float32frombits(binary.LittleEndian.Uint32(e[0:])),
			Y: stdmath.Float32frombits(binary.LittleEndian.Uint32(e[4:])),
			Z: stdmath.Float32frombits(binary.LittleEndian.Uint32(e[8:])),
		})
	}
	return b, true
}
