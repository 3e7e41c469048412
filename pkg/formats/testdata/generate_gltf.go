//go:build ignore

// This program generates a test cube in .gltf/.bin and .glb form for unit tests.
// Run with: go run generate_gltf.go
package main

import (
	"bytes"
	"encoding/binary"
	"log"
	"os"

	"github.com/kai-engine/assetbake/internal/gltftest"
	"github.com/kai-engine/assetbake/pkg/formats"
)

// One quad per face: normal, then the two in-plane axes.
var faces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

func main() {
	var positions, normals, uvs bytes.Buffer
	var indices []uint16

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for f, face := range faces {
		n, u, v := face[0], face[1], face[2]
		for _, c := range corners {
			p := [3]float32{}
			for i := range p {
				p[i] = 0.5 * (n[i] + c[0]*u[i] + c[1]*v[i])
			}
			binary.Write(&positions, binary.LittleEndian, p)
			binary.Write(&normals, binary.LittleEndian, n)
			binary.Write(&uvs, binary.LittleEndian, [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2})
		}
		base := uint16(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	b := gltftest.New().
		Attribute("POSITION", formats.Vec3, formats.Float, 24, positions.Bytes()).
		Attribute("NORMAL", formats.Vec3, formats.Float, 24, normals.Bytes()).
		Attribute("TEXCOORD_0", formats.Vec2, formats.Float, 24, uvs.Bytes()).
		Indices(formats.UnsignedShort, len(indices), gltftest.Uint16s(indices...)).
		Edit(func(doc *formats.Document) {
			doc.Asset.Generator = "generate_gltf.go"
			doc.Meshes[0].Name = "cube"
		})

	_, err := b.WriteFiles(".", "cube")
	must(err)

	glb, err := b.GLB()
	must(err)
	must(os.WriteFile("cube.glb", glb, 0644))

	log.Printf("wrote cube.gltf, cube.bin (%d bytes), cube.glb", len(b.Blob()))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
