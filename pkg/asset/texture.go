package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// TextureHeaderSize is the encoded size of TextureHeader in bytes.
const TextureHeaderSize = 24

// PixelFormat identifies the pixel encoding of a texture asset.
type PixelFormat uint32

// Pixel formats.
const (
	FormatUnknown PixelFormat = 0
	FormatRGBA8   PixelFormat = 1
)

// String returns the pixel format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(f))
	}
}

// BytesPerPixel returns the size of one pixel, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatRGBA8 {
		return 4
	}
	return 0
}

// TextureHeader is the fixed preamble of a texture asset.
// Pixels follow immediately, row-major, top row first.
type TextureHeader struct {
	AssetType Type
	Width     uint32
	Height    uint32
	Format    PixelFormat
	PixelSize uint64
}

// Validate checks that the pixel size matches the dimensions and format.
func (h *TextureHeader) Validate() error {
	if h.AssetType != TypeTexture {
		return fmt.Errorf("%w: %s", ErrWrongAssetType, h.AssetType)
	}
	bpp := h.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("%w: pixel format %s", ErrInvalidHeader, h.Format)
	}
	if want := uint64(h.Width) * uint64(h.Height) * uint64(bpp); h.PixelSize != want {
		return fmt.Errorf("%w: pixel size %d, expected %d for %dx%d %s", ErrInvalidHeader, h.PixelSize, want, h.Width, h.Height, h.Format)
	}
	return nil
}

// Texture is a complete texture asset.
type Texture struct {
	Header TextureHeader
	Pixels []byte
}

// NewTextureRGBA builds a texture asset from tightly packed RGBA8 pixels.
func NewTextureRGBA(width, height int, pix []byte) *Texture {
	return &Texture{
		Header: TextureHeader{
			AssetType: TypeTexture,
			Width:     uint32(width),
			Height:    uint32(height),
			Format:    FormatRGBA8,
			PixelSize: uint64(len(pix)),
		},
		Pixels: pix,
	}
}

// WriteTo writes the header followed by the pixel data.
func (t *Texture) WriteTo(w io.Writer) (int64, error) {
	buf := bytes.NewBuffer(make([]byte, 0, TextureHeaderSize))
	if err := binary.Write(buf, binary.LittleEndian, &t.Header); err != nil {
		return 0, err
	}
	return writeAll(w, buf.Bytes(), t.Pixels)
}

// DecodeTexture decodes and validates a texture asset.
func DecodeTexture(data []byte) (*Texture, error) {
	if len(data) < TextureHeaderSize {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedHeader, TextureHeaderSize, len(data))
	}

	var t Texture
	if err := binary.Read(bytes.NewReader(data[:TextureHeaderSize]), binary.LittleEndian, &t.Header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}
	if err := t.Header.Validate(); err != nil {
		return nil, err
	}

	pix := data[TextureHeaderSize:]
	if uint64(len(pix)) < t.Header.PixelSize {
		return nil, fmt.Errorf("%w: pixel data is %d bytes, header declares %d", ErrTruncatedHeader, len(pix), t.Header.PixelSize)
	}
	t.Pixels = pix[:t.Header.PixelSize]
	return &t, nil
}
