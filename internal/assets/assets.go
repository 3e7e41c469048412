// Package assets resolves the external resources a glTF document references.
package assets

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/qmuntal/gltf"

	"github.com/kai-engine/assetbake/pkg/formats"
)

// ErrUnsupportedDataURI is returned for inline resources other than base64 PNG or JPEG images.
var ErrUnsupportedDataURI = errors.New("unsupported data URI")

// Resolver loads resources by URI relative to a glTF document's directory.
// It serves as the gltf decoder's read handler for external buffers.
type Resolver struct {
	dir   string
	doc   *formats.Document
	cache *Cache
}

var _ gltf.ReadHandler = (*Resolver)(nil)

// NewResolver creates a resolver for documents located in dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{
		dir:   dir,
		cache: NewCache(),
	}
}

// Open parses the document at path and loads its buffers, reading external
// resources relative to the document's directory.
func Open(path string) (*formats.Document, *Resolver, error) {
	r := NewResolver(filepath.Dir(path))
	doc, err := formats.OpenDocument(path, r)
	if err != nil {
		return nil, nil, err
	}
	r.doc = doc
	return doc, r, nil
}

// ReadFullResource fills data from the file behind uri. Files longer than
// data are accepted; the extra bytes are not read into the document.
func (r *Resolver) ReadFullResource(uri string, data []byte) error {
	src, err := r.Load(uri)
	if err != nil {
		return err
	}
	if len(src) < len(data) {
		return fmt.Errorf("%w: %s has %d bytes, declared %d", formats.ErrBlobTooShort, uri, len(src), len(data))
	}
	copy(data, src)
	return nil
}

// Load returns the bytes behind a URI: an inline base64 image or a file path
// relative to the document directory.
func (r *Resolver) Load(uri string) ([]byte, error) {
	if data, ok := r.cache.Get(uri); ok {
		return data, nil
	}

	var data []byte
	var err error
	if formats.IsDataURI(uri) {
		data, err = decodeInline(uri)
	} else {
		data, err = r.readFile(uri)
	}
	if err != nil {
		return nil, err
	}

	r.cache.Set(uri, data)
	return data, nil
}

// Path returns the filesystem path a relative URI resolves to.
func (r *Resolver) Path(uri string) (string, error) {
	p, err := url.PathUnescape(uri)
	if err != nil {
		return "", fmt.Errorf("unescaping uri %q: %w", uri, err)
	}
	return filepath.Join(r.dir, filepath.FromSlash(p)), nil
}

func (r *Resolver) readFile(uri string) ([]byte, error) {
	path, err := r.Path(uri)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// decodeInline decodes an embedded image through the gltf package.
func decodeInline(uri string) ([]byte, error) {
	img := gltf.Image{URI: uri}
	if !img.IsEmbeddedResource() {
		return nil, fmt.Errorf("%w: %.40s", ErrUnsupportedDataURI, uri)
	}
	data, err := img.MarshalData()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDataURI, err)
	}
	return data, nil
}

// BufferView returns the bytes of a buffer view of the opened document.
func (r *Resolver) BufferView(index int) ([]byte, error) {
	if r.doc == nil {
		return nil, formats.ErrMissingBinary
	}
	return r.doc.BufferViewData(index)
}

// Stats exposes the resolver's cache statistics.
func (r *Resolver) Stats() (hits, misses int) {
	return r.cache.Stats()
}

// Cache is a simple in-memory cache for loaded resources.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
