package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MeshHeaderSize is the encoded size of MeshHeader in bytes.
const MeshHeaderSize = 56

// MeshHeader is the fixed preamble of a mesh asset. The field order and widths
// mirror the engine's MeshHeader struct (prefixed by the asset type tag) and are
// encoded packed, little-endian, with no padding.
//
// Offsets are relative to the start of the payload, which begins at PayloadStart.
type MeshHeader struct {
	AssetType    Type
	PayloadSize  uint64
	PayloadStart uint64

	VertexCount  uint32
	VertexStart  uint32
	VertexSize   uint32
	VertexStride uint32

	IndexCount uint32
	IndexStart uint32
	IndexSize  uint32

	TexcoordCount  uint32
	TexcoordOffset uint32
}

// Validate checks the relationships between header fields that every
// well-formed mesh asset satisfies.
func (h *MeshHeader) Validate() error {
	if h.AssetType != TypeMesh {
		return fmt.Errorf("%w: %s", ErrWrongAssetType, h.AssetType)
	}
	if h.PayloadStart != MeshHeaderSize {
		return fmt.Errorf("%w: payload start %d, expected %d", ErrInvalidHeader, h.PayloadStart, MeshHeaderSize)
	}
	if uint64(h.VertexSize) != uint64(h.VertexStride)*uint64(h.VertexCount) {
		return fmt.Errorf("%w: vertex size %d != stride %d * count %d", ErrInvalidHeader, h.VertexSize, h.VertexStride, h.VertexCount)
	}
	if h.VertexStart != 0 {
		return fmt.Errorf("%w: vertex start %d, expected 0", ErrInvalidHeader, h.VertexStart)
	}
	if h.IndexStart != h.VertexSize {
		return fmt.Errorf("%w: index start %d != vertex size %d", ErrInvalidHeader, h.IndexStart, h.VertexSize)
	}
	if h.PayloadSize != uint64(h.VertexSize)+uint64(h.IndexSize) {
		return fmt.Errorf("%w: payload size %d != vertices %d + indices %d", ErrInvalidHeader, h.PayloadSize, h.VertexSize, h.IndexSize)
	}
	if h.TexcoordCount > 0 && h.TexcoordOffset >= h.VertexStride {
		return fmt.Errorf("%w: texcoord offset %d outside stride %d", ErrInvalidHeader, h.TexcoordOffset, h.VertexStride)
	}
	return nil
}

// MarshalBinary encodes the header into exactly MeshHeaderSize bytes.
func (h *MeshHeader) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, MeshHeaderSize))
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a header from the first MeshHeaderSize bytes of data.
func (h *MeshHeader) UnmarshalBinary(data []byte) error {
	if len(data) < MeshHeaderSize {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedHeader, MeshHeaderSize, len(data))
	}
	return binary.Read(bytes.NewReader(data[:MeshHeaderSize]), binary.LittleEndian, h)
}

// ReadMeshHeader reads a mesh header from r.
func ReadMeshHeader(r io.Reader) (*MeshHeader, error) {
	var h MeshHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}
	return &h, nil
}

// Mesh is a complete mesh asset: header plus interleaved vertex and index buffers.
type Mesh struct {
	Header   MeshHeader
	Vertices []byte
	Indices  []byte
}

// WriteTo writes header, vertex buffer and index buffer back to back.
func (m *Mesh) WriteTo(w io.Writer) (int64, error) {
	header, err := m.Header.MarshalBinary()
	if err != nil {
		return 0, err
	}
	return writeAll(w, header, m.Vertices, m.Indices)
}

// Vertex returns the bytes of vertex i.
func (m *Mesh) Vertex(i int) []byte {
	stride := int(m.Header.VertexStride)
	return m.Vertices[i*stride : (i+1)*stride]
}

// DecodeMesh decodes and validates a mesh asset.
func DecodeMesh(data []byte) (*Mesh, error) {
	var m Mesh
	if err := m.Header.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if err := m.Header.Validate(); err != nil {
		return nil, err
	}

	payload := data[m.Header.PayloadStart:]
	if uint64(len(payload)) < m.Header.PayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, header declares %d", ErrTruncatedHeader, len(payload), m.Header.PayloadSize)
	}

	vStart := m.Header.VertexStart
	m.Vertices = payload[vStart : vStart+m.Header.VertexSize]
	iStart := m.Header.IndexStart
	m.Indices = payload[iStart : iStart+m.Header.IndexSize]
	return &m, nil
}
