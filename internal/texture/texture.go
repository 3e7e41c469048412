// Package texture converts the images a glTF document references into engine texture assets.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"go.uber.org/multierr"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/kai-engine/assetbake/pkg/asset"
	"github.com/kai-engine/assetbake/pkg/formats"
)

// ErrNoImageData is returned for images with neither a uri nor a bufferView.
var ErrNoImageData = errors.New("image has neither uri nor bufferView")

// Source provides the raw bytes behind image references.
type Source interface {
	Load(uri string) ([]byte, error)
	BufferView(index int) ([]byte, error)
}

// Options controls texture conversion.
type Options struct {
	// MaxSize caps the longest side; larger images are downscaled keeping aspect. 0 disables.
	MaxSize int
}

// Converted is one converted image.
type Converted struct {
	Index int
	Name  string
	Image *image.NRGBA
	Asset *asset.Texture
}

// Convert decodes every image referenced by the document's textures, in
// texture order, each image once. Images that fail are skipped and their
// errors combined into the returned error.
func Convert(doc *formats.Document, src Source, opts Options) ([]*Converted, error) {
	var out []*Converted
	var errs error

	seen := make(map[int]bool)
	for ti, tex := range doc.Textures {
		if tex.Source == nil {
			continue
		}
		idx := *tex.Source
		if seen[idx] {
			continue
		}
		seen[idx] = true

		if idx < 0 || idx >= len(doc.Images) {
			errs = multierr.Append(errs, fmt.Errorf("texture %d: %w: image %d of %d", ti, formats.ErrInvalidReference, idx, len(doc.Images)))
			continue
		}

		c, err := convertImage(doc, idx, src, opts)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("image %d (%s): %w", idx, ImageName(doc, idx), err))
			continue
		}
		out = append(out, c)
	}

	return out, errs
}

func convertImage(doc *formats.Document, idx int, src Source, opts Options) (*Converted, error) {
	img := doc.Images[idx]

	var data []byte
	var err error
	switch {
	case img.BufferView != nil:
		data, err = src.BufferView(*img.BufferView)
	case img.URI != "":
		data, err = src.Load(img.URI)
	default:
		err = ErrNoImageData
	}
	if err != nil {
		return nil, err
	}

	decoded, err := Decode(data, isTGA(img))
	if err != nil {
		return nil, err
	}

	rgba := ToNRGBA(decoded)
	if opts.MaxSize > 0 {
		rgba = Downscale(rgba, opts.MaxSize)
	}

	b := rgba.Bounds()
	return &Converted{
		Index: idx,
		Name:  ImageName(doc, idx),
		Image: rgba,
		Asset: asset.NewTextureRGBA(b.Dx(), b.Dy(), rgba.Pix),
	}, nil
}

func isTGA(img formats.Image) bool {
	if img.MimeType == "image/x-tga" || img.MimeType == "image/tga" {
		return true
	}
	return !formats.IsDataURI(img.URI) && strings.EqualFold(path.Ext(img.URI), ".tga")
}

// Decode decodes encoded image bytes. TGA has no magic number, so it must be
// requested explicitly; other formats are detected by their headers.
func Decode(data []byte, tgaHint bool) (image.Image, error) {
	if tgaHint {
		img, err := tga.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode tga: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ImageName returns the output base name for image idx: its declared name,
// else the base of its URI without extension, else image_<idx>.
func ImageName(doc *formats.Document, idx int) string {
	img := doc.Images[idx]
	name := img.Name
	if name == "" && img.URI != "" && !formats.IsDataURI(img.URI) {
		name = path.Base(img.URI)
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	name = sanitize(name)
	if name == "" {
		name = fmt.Sprintf("image_%d", idx)
	}
	return name
}

// sanitize keeps a name from escaping the output directory.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// ToNRGBA converts any image to a tightly packed NRGBA image anchored at the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Downscale shrinks img so that its longest side is at most maxSize.
// Images already within the limit are returned unchanged.
func Downscale(img *image.NRGBA, maxSize int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}

	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePreview writes a lossless WebP rendition of the converted image.
func EncodePreview(w io.Writer, c *Converted) error {
	if err := nativewebp.Encode(w, c.Image, nil); err != nil {
		return fmt.Errorf("webp encode: %w", err)
	}
	return nil
}
