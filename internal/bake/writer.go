package bake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Writer places baked assets in an output directory.
type Writer struct {
	Dir string
}

// MeshPath returns the output path of the mesh baked from inputPath:
// the input's base name up to its first dot, with a .bin extension.
func (w *Writer) MeshPath(inputPath string) string {
	return filepath.Join(w.Dir, baseName(inputPath)+".bin")
}

// Path returns the output path for a named asset with the given extension.
func (w *Writer) Path(name, ext string) string {
	return filepath.Join(w.Dir, name+ext)
}

func baseName(path string) string {
	base := filepath.Base(path)
	if name, _, _ := strings.Cut(base, "."); name != "" {
		return name
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Write creates the output directory if needed and writes the asset to path.
// The data goes to a temporary file that is renamed into place, so a failed
// write never leaves a partial asset at path.
func (w *Writer) Write(path string, asset io.WriterTo) (int64, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.Dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	n, err := asset.WriteTo(tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("writing %s: %w", path, err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("writing %s: %w", path, err)
	}
	return n, nil
}

// writerFunc adapts a function to io.WriterTo.
type writerFunc func(w io.Writer) error

func (f writerFunc) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := f(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
