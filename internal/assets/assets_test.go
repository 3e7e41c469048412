package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kai-engine/assetbake/internal/gltftest"
	"github.com/kai-engine/assetbake/pkg/formats"
)

func triangle() *gltftest.Builder {
	return gltftest.New().
		Attribute("POSITION", formats.Vec3, formats.Float, 3, gltftest.Floats(0, 0, 0, 1, 0, 0, 0, 1, 0)).
		Indices(formats.UnsignedShort, 3, gltftest.Uint16s(0, 1, 2))
}

func TestReadFullResource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mesh data.bin"), []byte{0, 1, 2, 3, 4, 5}, 0644))

	data := make([]byte, 6)
	require.NoError(t, NewResolver(dir).ReadFullResource("mesh%20data.bin", data))
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5}, data)
}

func TestReadFullResourceLongerFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mesh.bin"), []byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, 0644))

	data := make([]byte, 6)
	require.NoError(t, NewResolver(dir).ReadFullResource("mesh.bin", data))
	assert.Equal(t, []byte{9, 8, 7, 6, 5, 4}, data)
}

func TestReadFullResourceTooShort(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mesh.bin"), make([]byte, 4), 0644))

	err := NewResolver(dir).ReadFullResource("mesh.bin", make([]byte, 6))
	require.ErrorIs(t, err, formats.ErrBlobTooShort)
}

func TestReadFullResourceMissingFile(t *testing.T) {
	err := NewResolver(t.TempDir()).ReadFullResource("absent.bin", make([]byte, 6))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	b := triangle()
	path, err := b.WriteFiles(dir, "tri")
	require.NoError(t, err)

	doc, r, err := Open(path)
	require.NoError(t, err)

	blob, err := doc.Blob()
	require.NoError(t, err)
	assert.Equal(t, b.Blob(), blob)

	view, err := r.BufferView(1)
	require.NoError(t, err)
	assert.Equal(t, gltftest.Uint16s(0, 1, 2), view)

	_, err = r.BufferView(5)
	require.ErrorIs(t, err, formats.ErrInvalidReference)

	hits, misses := r.Stats()
	assert.Equal(t, 0, hits)
	assert.Equal(t, 1, misses)
}

func TestOpenShortBlob(t *testing.T) {
	dir := t.TempDir()
	path, err := triangle().WriteFiles(dir, "tri")
	require.NoError(t, err)
	require.NoError(t, os.Truncate(filepath.Join(dir, "tri.bin"), 10))

	_, _, err = Open(path)
	require.ErrorIs(t, err, formats.ErrBlobTooShort)
}

func TestOpenMissingBuffer(t *testing.T) {
	dir := t.TempDir()
	path, err := triangle().WriteFiles(dir, "tri")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "tri.bin")))

	_, _, err = Open(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenDataURIBuffer(t *testing.T) {
	dir := t.TempDir()
	b := triangle()
	data, err := b.JSON("data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.Blob()))
	require.NoError(t, err)
	path := filepath.Join(dir, "inline.gltf")
	require.NoError(t, os.WriteFile(path, data, 0644))

	doc, _, err := Open(path)
	require.NoError(t, err)
	blob, err := doc.Blob()
	require.NoError(t, err)
	assert.Equal(t, b.Blob(), blob)
}

func TestOpenGLB(t *testing.T) {
	dir := t.TempDir()
	b := triangle()
	glb, err := b.GLB()
	require.NoError(t, err)
	path := filepath.Join(dir, "tri.glb")
	require.NoError(t, os.WriteFile(path, glb, 0644))

	doc, r, err := Open(path)
	require.NoError(t, err)
	blob, err := doc.Blob()
	require.NoError(t, err)
	assert.Equal(t, b.Blob(), blob)

	view, err := r.BufferView(0)
	require.NoError(t, err)
	assert.Equal(t, gltftest.Floats(0, 0, 0, 1, 0, 0, 0, 1, 0), view)

	_, misses := r.Stats()
	assert.Zero(t, misses, "an embedded BIN chunk reads no files")
}

func TestBufferViewBeforeOpen(t *testing.T) {
	_, err := NewResolver(t.TempDir()).BufferView(0)
	require.ErrorIs(t, err, formats.ErrMissingBinary)
}

func TestLoadInline(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    []byte
		wantErr bool
	}{
		{"png", "data:image/png;base64,AQID", []byte{1, 2, 3}, false},
		{"jpeg", "data:image/jpeg;base64,BAU=", []byte{4, 5}, false},
		{"text", "data:text/plain,a%20b", nil, true},
		{"bad base64", "data:image/png;base64,@@@", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewResolver(t.TempDir()).Load(tt.uri)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedDataURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "albedo.png")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0644))

	r := NewResolver(dir)

	data, err := r.Load("albedo.png")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// A second load is served from the cache.
	require.NoError(t, os.WriteFile(path, []byte("second"), 0644))
	data, err = r.Load("albedo.png")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	hits, misses := r.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Set("a", []byte{1})

	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Clear()
	_, ok = c.Get("a")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, 0, hits)
	assert.Equal(t, 1, misses)
}
