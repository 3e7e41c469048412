// Package gltftest builds small glTF documents and raw buffers for tests.
package gltftest

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/kai-engine/assetbake/pkg/formats"
)

// Builder accumulates buffer views, accessors and primitive attributes over a
// single raw buffer.
type Builder struct {
	doc  formats.Document
	blob []byte
}

// New returns a builder for a version 2.0 document with one mesh and one primitive.
func New() *Builder {
	return &Builder{
		doc: formats.Document{
			Asset:   formats.Asset{Version: formats.SupportedVersion, Generator: "gltftest"},
			Buffers: []formats.Buffer{{}},
			Meshes:  []formats.Mesh{{Primitives: []formats.Primitive{{}}}},
		},
	}
}

// View appends data to the raw buffer (4-byte aligned) and returns its buffer view index.
func (b *Builder) View(data []byte) int {
	for len(b.blob)%4 != 0 {
		b.blob = append(b.blob, 0)
	}
	b.doc.BufferViews = append(b.doc.BufferViews, formats.BufferView{
		Buffer:     0,
		ByteOffset: len(b.blob),
		ByteLength: len(data),
	})
	b.blob = append(b.blob, data...)
	return len(b.doc.BufferViews) - 1
}

// Accessor adds an accessor over a new buffer view holding data and returns its index.
func (b *Builder) Accessor(t formats.AccessorType, c formats.ComponentType, count int, data []byte) int {
	view := b.View(data)
	b.doc.Accessors = append(b.doc.Accessors, formats.Accessor{
		BufferView:    &view,
		ComponentType: c,
		Count:         count,
		Type:          t,
	})
	return len(b.doc.Accessors) - 1
}

// Attribute adds a named primitive attribute backed by data.
func (b *Builder) Attribute(name string, t formats.AccessorType, c formats.ComponentType, count int, data []byte) *Builder {
	idx := b.Accessor(t, c, count, data)
	prim := &b.doc.Meshes[0].Primitives[0]
	prim.Attributes = append(prim.Attributes, formats.Attribute{Name: name, Accessor: idx})
	return b
}

// Indices sets the primitive's index accessor.
func (b *Builder) Indices(c formats.ComponentType, count int, data []byte) *Builder {
	idx := b.Accessor(formats.Scalar, c, count, data)
	b.doc.Meshes[0].Primitives[0].Indices = &idx
	return b
}

// Texture adds an image referenced by URI and a texture using it.
func (b *Builder) Texture(name, uri string) *Builder {
	b.doc.Images = append(b.doc.Images, formats.Image{Name: name, URI: uri})
	src := len(b.doc.Images) - 1
	b.doc.Textures = append(b.doc.Textures, formats.Texture{Source: &src})
	return b
}

// Edit applies fn to the document being built, for shaping invalid inputs.
func (b *Builder) Edit(fn func(doc *formats.Document)) *Builder {
	fn(&b.doc)
	return b
}

// Document returns the document with the buffer length filled in.
func (b *Builder) Document() *formats.Document {
	doc := b.doc
	doc.Buffers = append([]formats.Buffer(nil), b.doc.Buffers...)
	if len(doc.Buffers) > 0 {
		doc.Buffers[0].ByteLength = len(b.blob)
	}
	return &doc
}

// Blob returns the raw buffer.
func (b *Builder) Blob() []byte {
	return b.blob
}

// JSON encodes the document with its buffer pointing at uri.
func (b *Builder) JSON(uri string) ([]byte, error) {
	doc := b.Document()
	if len(doc.Buffers) > 0 {
		doc.Buffers[0].URI = uri
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteFiles writes <name>.gltf and <name>.bin into dir and returns the .gltf path.
func (b *Builder) WriteFiles(dir, name string) (string, error) {
	data, err := b.JSON(name + ".bin")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name+".bin"), b.blob, 0644); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".gltf")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// GLB encodes the document and raw buffer as a binary container. The gltf
// encoder writes attributes in key order, so declaration order is not kept.
func (b *Builder) GLB() ([]byte, error) {
	data, err := b.JSON("")
	if err != nil {
		return nil, err
	}
	var doc gltf.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Buffers) > 0 {
		doc.Buffers[0].Data = b.blob
	}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Floats encodes float32 values little-endian.
func Floats(values ...float32) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, values)
	return buf.Bytes()
}

// Uint16s encodes uint16 values little-endian.
func Uint16s(values ...uint16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, values)
	return buf.Bytes()
}

// Uint32s encodes uint32 values little-endian.
func Uint32s(values ...uint32) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, values)
	return buf.Bytes()
}
