package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	glbMagic        = "glTF"
	glbVersion      = 2
	glbHeaderSize   = 12
	chunkHeaderSize = 8

	glbChunkJSON uint32 = 0x4E4F534A // "JSON"
)

// GLB format errors.
var (
	ErrUnsupportedGLBVersion = errors.New("unsupported GLB container version")
	ErrTruncatedGLBData      = errors.New("truncated GLB data")
)

// IsGLB reports whether data starts with the binary glTF magic.
func IsGLB(data []byte) bool {
	return bytes.HasPrefix(data, []byte(glbMagic))
}

// glbJSON returns the JSON chunk of a GLB container. The BIN chunk is
// left to the gltf decoder.
func glbJSON(data []byte) ([]byte, error) {
	if len(data) < glbHeaderSize+chunkHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedGLBData, len(data))
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != glbVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedGLBVersion, v)
	}

	length := binary.LittleEndian.Uint32(data[glbHeaderSize:])
	if typ := binary.LittleEndian.Uint32(data[glbHeaderSize+4:]); typ != glbChunkJSON {
		return nil, fmt.Errorf("%w: first chunk is 0x%08x, not JSON", ErrMalformedDocument, typ)
	}

	start := glbHeaderSize + chunkHeaderSize
	if uint64(length) > uint64(len(data)-start) {
		return nil, fmt.Errorf("%w: JSON chunk declares %d bytes, have %d", ErrTruncatedGLBData, length, len(data)-start)
	}
	return data[start : start+int(length)], nil
}
