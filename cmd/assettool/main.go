// assettool is a CLI utility for inspecting baked kai engine assets.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/kai-engine/assetbake/internal/config"
	"github.com/kai-engine/assetbake/pkg/asset"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "verify":
		cmdVerify(args)
	case "vertices", "v":
		cmdVertices(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`assettool - kai engine asset utility

Usage:
  assettool <command> [options]

Commands:
  info <file>...              Show asset header information
  verify <file>...            Check header invariants and payload sizes
  vertices [-n N] <file.bin>  Print mesh vertices as float32 values
  config [-o path]            Write the effective gltfbake config to a file

Examples:
  assettool info output/cube.bin
  assettool verify output/*.bin output/*.tex
  assettool vertices -n 8 output/cube.bin
  assettool config -o ./assetbake.yaml`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: assettool info <file>...")
		os.Exit(1)
	}

	failed := false
	for i, path := range args {
		if i > 0 {
			fmt.Println()
		}
		f, err := asset.DecodeFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			failed = true
			continue
		}
		printInfo(path, f)
	}

	if failed {
		os.Exit(1)
	}
}

func printInfo(path string, f *asset.File) {
	fmt.Printf("File:    %s\n", path)
	fmt.Printf("Type:    %s\n", f.Type)

	switch f.Type {
	case asset.TypeMesh:
		h := f.Mesh.Header
		fmt.Printf("Payload: %s at offset %d\n", humanize.Bytes(h.PayloadSize), h.PayloadStart)
		fmt.Println()
		fmt.Println("Vertices:")
		fmt.Printf("  %-10s %d\n", "count", h.VertexCount)
		fmt.Printf("  %-10s %d bytes\n", "stride", h.VertexStride)
		fmt.Printf("  %-10s %d\n", "start", h.VertexStart)
		fmt.Printf("  %-10s %s\n", "size", humanize.Bytes(uint64(h.VertexSize)))
		fmt.Println("Indices:")
		fmt.Printf("  %-10s %d\n", "count", h.IndexCount)
		fmt.Printf("  %-10s %d\n", "start", h.IndexStart)
		fmt.Printf("  %-10s %s\n", "size", humanize.Bytes(uint64(h.IndexSize)))
		if h.IndexCount > 0 {
			fmt.Printf("  %-10s %d bytes\n", "width", h.IndexSize/h.IndexCount)
		}
		fmt.Println("Texcoords:")
		fmt.Printf("  %-10s %d\n", "channels", h.TexcoordCount)
		fmt.Printf("  %-10s %d\n", "offset", h.TexcoordOffset)
	case asset.TypeTexture:
		h := f.Texture.Header
		fmt.Printf("Size:    %dx%d %s\n", h.Width, h.Height, h.Format)
		fmt.Printf("Pixels:  %s\n", humanize.Bytes(h.PixelSize))
	}
}

func cmdVerify(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: assettool verify <file>...")
		os.Exit(1)
	}

	bad := 0
	for _, path := range args {
		f, err := asset.DecodeFile(path)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			bad++
			continue
		}
		fmt.Printf("OK   %s (%s)\n", path, f.Type)
	}

	if bad > 0 {
		fmt.Fprintf(os.Stderr, "\n(%d of %d files failed)\n", bad, len(args))
		os.Exit(1)
	}
}

func cmdVertices(args []string) {
	fs := flag.NewFlagSet("vertices", flag.ExitOnError)
	limit := fs.Int("n", 16, "Limit output to N vertices (0 = all)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: assettool vertices [-n N] <file.bin>")
		os.Exit(1)
	}

	f, err := asset.DecodeFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if f.Type != asset.TypeMesh {
		fmt.Fprintf(os.Stderr, "Error: %s is a %s asset, not a mesh\n", fs.Arg(0), f.Type)
		os.Exit(1)
	}

	m := f.Mesh
	count := int(m.Header.VertexCount)
	if *limit > 0 && count > *limit {
		count = *limit
	}

	for i := 0; i < count; i++ {
		fmt.Printf("%6d  %s\n", i, formatVertex(m.Vertex(i), int(m.Header.TexcoordOffset), m.Header.TexcoordCount > 0))
	}

	if count < int(m.Header.VertexCount) {
		fmt.Fprintf(os.Stderr, "\n(showing first %d of %d vertices, use -n 0 for all)\n", count, m.Header.VertexCount)
	}
}

// formatVertex renders a vertex as float32 groups, splitting at the texcoord offset.
func formatVertex(v []byte, texcoordOffset int, hasTexcoords bool) string {
	var sb strings.Builder
	for off := 0; off+4 <= len(v); off += 4 {
		if hasTexcoords && off == texcoordOffset && off > 0 {
			sb.WriteString(" |")
		}
		if off > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%9.4f", math.Float32frombits(binary.LittleEndian.Uint32(v[off:])))
	}
	return sb.String()
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	out := fs.String("o", "", "Output path (default: user config directory)")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = filepath.Join(config.ConfigDir(), config.FileName)
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}
