package mesh

// Interleave lays the cataloged attributes out vertex by vertex: for each
// vertex, the position element followed by each texcoord channel's element.
// Elements are packed with no padding.
func Interleave(layout *Layout) []byte {
	streams := layout.Streams()
	out := make([]byte, 0, layout.Stride*layout.VertexCount)

	for i := 0; i < layout.VertexCount; i++ {
		for _, s := range streams {
			out = append(out, s.Element(i)...)
		}
	}

	return out
}
