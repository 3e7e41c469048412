// Package formats provides parsers for the scene interchange formats consumed by the asset baker.
package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// SupportedVersion is the only glTF asset version accepted.
const SupportedVersion = "2.0"

// glTF format errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported glTF version")
	ErrUnsupportedShape   = errors.New("unsupported glTF document shape")
	ErrInvalidReference   = errors.New("invalid glTF index reference")
	ErrMalformedDocument  = errors.New("malformed glTF document")
	ErrBlobTooShort       = errors.New("raw buffer shorter than declared byteLength")
	ErrMissingBinary      = errors.New("buffer has no uri and document has no embedded BIN chunk")
)

// Document is a parsed glTF 2.0 document.
// Only the parts of the schema the baker reads are modelled.
type Document struct {
	Asset       Asset        `json:"asset"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Images      []Image      `json:"images,omitempty"`
	Textures    []Texture    `json:"textures,omitempty"`
}

// Asset is the glTF asset metadata object.
type Asset struct {
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Copyright  string `json:"copyright,omitempty"`
}

// Buffer references a raw binary blob.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
	Name       string `json:"name,omitempty"`

	// Data is filled when the document is opened with its resources.
	Data []byte `json:"-"`
}

// BufferView is a byte range within a buffer.
type BufferView struct {
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset,omitempty"`
	ByteLength int    `json:"byteLength"`
	ByteStride int    `json:"byteStride,omitempty"` // 0 = tightly packed
	Target     int    `json:"target,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Accessor is a typed view into a buffer view.
type Accessor struct {
	BufferView    *int          `json:"bufferView,omitempty"`
	ByteOffset    int           `json:"byteOffset,omitempty"`
	ComponentType ComponentType `json:"componentType"`
	Normalized    bool          `json:"normalized,omitempty"`
	Count         int           `json:"count"`
	Type          AccessorType  `json:"type"`
	Name          string        `json:"name,omitempty"`
}

// Mesh is a set of primitives.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive is one drawable unit of a mesh.
type Primitive struct {
	Attributes Attributes `json:"attributes"`
	Indices    *int       `json:"indices,omitempty"`
	Material   *int       `json:"material,omitempty"`
	Mode       *int       `json:"mode,omitempty"`
}

// Image references encoded image data by URI or buffer view.
type Image struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
}

// Texture binds an image to a sampler.
type Texture struct {
	Name    string `json:"name,omitempty"`
	Source  *int   `json:"source,omitempty"`
	Sampler *int   `json:"sampler,omitempty"`
}

// Primitive returns the single primitive of the single mesh.
// Only valid after Validate has succeeded.
func (d *Document) Primitive() *Primitive {
	return &d.Meshes[0].Primitives[0]
}

// Accessor returns the accessor at index i.
func (d *Document) Accessor(i int) (*Accessor, error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d of %d", ErrInvalidReference, i, len(d.Accessors))
	}
	return &d.Accessors[i], nil
}

// BufferViewOf returns the buffer view an accessor points at.
func (d *Document) BufferViewOf(acc *Accessor) (*BufferView, error) {
	if acc.BufferView == nil {
		return nil, fmt.Errorf("%w: accessor without bufferView", ErrInvalidReference)
	}
	i := *acc.BufferView
	if i < 0 || i >= len(d.BufferViews) {
		return nil, fmt.Errorf("%w: bufferView %d of %d", ErrInvalidReference, i, len(d.BufferViews))
	}
	return &d.BufferViews[i], nil
}

// Validate checks the document against what the baker supports:
// version 2.0, exactly one buffer, one mesh, one primitive, and known accessor tags.
func (d *Document) Validate() error {
	if d.Asset.Version != SupportedVersion {
		return fmt.Errorf("%w: %q (only %s is supported)", ErrUnsupportedVersion, d.Asset.Version, SupportedVersion)
	}

	if len(d.Buffers) != 1 {
		return fmt.Errorf("%w: expected exactly 1 buffer, got %d", ErrUnsupportedShape, len(d.Buffers))
	}
	if len(d.Meshes) != 1 {
		return fmt.Errorf("%w: expected exactly 1 mesh, got %d", ErrUnsupportedShape, len(d.Meshes))
	}
	if n := len(d.Meshes[0].Primitives); n != 1 {
		return fmt.Errorf("%w: expected exactly 1 primitive, got %d", ErrUnsupportedShape, n)
	}

	for i := range d.Accessors {
		acc := &d.Accessors[i]
		if _, err := acc.ElementSize(); err != nil {
			return fmt.Errorf("accessor %d: %w", i, err)
		}
		if acc.Count < 0 || acc.ByteOffset < 0 {
			return fmt.Errorf("%w: accessor %d has negative count or offset", ErrMalformedDocument, i)
		}
	}

	for i, bv := range d.BufferViews {
		if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteStride < 0 {
			return fmt.Errorf("%w: bufferView %d has negative range", ErrMalformedDocument, i)
		}
	}

	prim := d.Primitive()
	for _, attr := range prim.Attributes {
		if _, err := d.Accessor(attr.Accessor); err != nil {
			return fmt.Errorf("attribute %s: %w", attr.Name, err)
		}
	}
	if prim.Indices != nil {
		if _, err := d.Accessor(*prim.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	}

	return nil
}

// ParseGLTF parses a glTF JSON document from raw bytes and validates it.
func ParseGLTF(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseDocument parses either a .gltf JSON document or a .glb container and
// loads its buffers. External buffers are read through h, relative to the
// document.
func ParseDocument(data []byte, h gltf.ReadHandler) (*Document, error) {
	text := data
	container := IsGLB(data)
	if container {
		var err error
		if text, err = glbJSON(data); err != nil {
			return nil, err
		}
	}

	doc, err := ParseGLTF(text)
	if err != nil {
		return nil, err
	}
	if !container && doc.Buffers[0].URI == "" {
		return nil, ErrMissingBinary
	}

	var raw gltf.Document
	dec := gltf.NewDecoder(bytes.NewReader(data)).WithReadHandler(h)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("loading buffers: %w", err)
	}
	for i := range doc.Buffers {
		if i < len(raw.Buffers) {
			doc.Buffers[i].Data = raw.Buffers[i].Data
		}
	}
	return doc, nil
}

// OpenDocument reads the document at path and loads its buffers through h.
func OpenDocument(path string, h gltf.ReadHandler) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading glTF file: %w", err)
	}
	return ParseDocument(data, h)
}

// ParseDocumentFile opens a glTF document from disk, resolving external
// buffers next to it.
func ParseDocumentFile(path string) (*Document, error) {
	return OpenDocument(path, &gltf.RelativeFileHandler{Dir: filepath.Dir(path)})
}

// Blob returns the loaded bytes of the document's single buffer.
func (d *Document) Blob() ([]byte, error) {
	buf := d.Buffers[0]
	if buf.Data == nil {
		return nil, ErrMissingBinary
	}
	if len(buf.Data) < buf.ByteLength {
		return nil, fmt.Errorf("%w: have %d bytes, declared %d", ErrBlobTooShort, len(buf.Data), buf.ByteLength)
	}
	return buf.Data, nil
}

// BufferViewData returns the bytes of a buffer view over the loaded buffer.
func (d *Document) BufferViewData(index int) ([]byte, error) {
	if index < 0 || index >= len(d.BufferViews) {
		return nil, fmt.Errorf("%w: bufferView %d of %d", ErrInvalidReference, index, len(d.BufferViews))
	}
	blob, err := d.Blob()
	if err != nil {
		return nil, err
	}
	bv := d.BufferViews[index]
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset > len(blob) || bv.ByteLength > len(blob)-bv.ByteOffset {
		return nil, fmt.Errorf("%w: bufferView %d wants [%d, +%d), buffer has %d bytes", ErrBlobTooShort, index, bv.ByteOffset, bv.ByteLength, len(blob))
	}
	return blob[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// IsDataURI reports whether a URI embeds its payload inline.
func IsDataURI(uri string) bool {
	return strings.HasPrefix(uri, "data:")
}
