package mesh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kai-engine/assetbake/pkg/formats"
)

const (
	attrPosition       = "POSITION"
	attrTexcoordPrefix = "TEXCOORD"
)

// AttributeKind classifies a primitive attribute.
type AttributeKind int

// Attribute kinds.
const (
	KindIgnored AttributeKind = iota
	KindPosition
	KindTexcoord
)

// String returns the kind name.
func (k AttributeKind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindTexcoord:
		return "texcoord"
	default:
		return "ignored"
	}
}

// Classify returns the kind of a named attribute. Texcoord channels are
// TEXCOORD_<n> with a purely numeric n; anything else is ignored.
func Classify(name string) AttributeKind {
	if name == attrPosition {
		return KindPosition
	}
	if !strings.HasPrefix(name, attrTexcoordPrefix) {
		return KindIgnored
	}
	suffix, ok := strings.CutPrefix(name, attrTexcoordPrefix+"_")
	if !ok || suffix == "" {
		return KindIgnored
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return KindIgnored
		}
	}
	if _, err := strconv.Atoi(suffix); err != nil {
		return KindIgnored
	}
	return KindTexcoord
}

// Options tunes how a primitive is cataloged.
type Options struct {
	// AllowCountMismatch accepts attributes with differing element counts,
	// using the largest count and zero-filling the shorter attributes.
	AllowCountMismatch bool
}

// Layout is the vertex layout derived from a primitive's attributes.
type Layout struct {
	Position  *Stream
	Texcoords []*Stream
	Ignored   []string

	// Stride counts only the written streams; ignored attributes add nothing.
	Stride      int
	VertexCount int

	// TexcoordOffset is the byte offset of the first texcoord channel within
	// a written vertex, measured in vertex order (position first). It is not
	// the running stride at the point TEXCOORD_0 is declared: when texcoords
	// are declared before POSITION, or after ignored attributes, the two differ.
	TexcoordOffset int
}

// Streams returns the cataloged attributes in vertex order: position first,
// then texcoord channels in declaration order.
func (l *Layout) Streams() []*Stream {
	streams := make([]*Stream, 0, 1+len(l.Texcoords))
	if l.Position != nil {
		streams = append(streams, l.Position)
	}
	return append(streams, l.Texcoords...)
}

// accumulator carries the running totals of a catalog pass.
type accumulator struct {
	stride         int
	texcoordOffset int
	texcoordSeen   bool
}

func (a *accumulator) add(s *Stream, kind AttributeKind) {
	if kind == KindTexcoord && !a.texcoordSeen {
		a.texcoordOffset = a.stride
		a.texcoordSeen = true
	}
	a.stride += s.ElementSize
}

// Catalog walks the primitive's attributes once, slicing each recognised
// attribute from the blob and deriving the vertex layout.
func Catalog(doc *formats.Document, blob []byte, opts Options) (*Layout, error) {
	layout := &Layout{}
	cataloged, mismatch := 0, false

	for _, attr := range doc.Primitive().Attributes {
		kind := Classify(attr.Name)
		if kind == KindIgnored {
			layout.Ignored = append(layout.Ignored, attr.Name)
			continue
		}

		s, err := newStream(doc, blob, attr)
		if err != nil {
			return nil, err
		}

		switch kind {
		case KindPosition:
			layout.Position = s
		case KindTexcoord:
			layout.Texcoords = append(layout.Texcoords, s)
		}

		if cataloged > 0 && s.Count != layout.VertexCount {
			mismatch = true
		}
		layout.VertexCount = max(layout.VertexCount, s.Count)
		cataloged++
	}

	if mismatch && !opts.AllowCountMismatch {
		return nil, fmt.Errorf("%w: %s", ErrVertexCountMismatch, describeCounts(layout))
	}

	var acc accumulator
	if layout.Position != nil {
		acc.add(layout.Position, KindPosition)
	}
	for _, s := range layout.Texcoords {
		acc.add(s, KindTexcoord)
	}
	layout.Stride = acc.stride
	layout.TexcoordOffset = acc.texcoordOffset

	return layout, nil
}

func describeCounts(l *Layout) string {
	parts := make([]string, 0, 1+len(l.Texcoords))
	for _, s := range l.Streams() {
		parts = append(parts, fmt.Sprintf("%s=%d", s.Name, s.Count))
	}
	return strings.Join(parts, ", ")
}
