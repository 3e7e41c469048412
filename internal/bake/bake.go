// Package bake runs the glTF to engine asset conversion.
package bake

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kai-engine/assetbake/internal/assets"
	"github.com/kai-engine/assetbake/internal/config"
	"github.com/kai-engine/assetbake/internal/logger"
	"github.com/kai-engine/assetbake/internal/mesh"
	"github.com/kai-engine/assetbake/internal/texture"
	"github.com/kai-engine/assetbake/pkg/asset"
	"github.com/kai-engine/assetbake/pkg/formats"
)

// Report summarizes a finished bake.
type Report struct {
	MeshPath     string
	Header       asset.MeshHeader
	TexturePaths []string
	TextureErr   error // non-fatal texture failures, nil if none
}

// Baker converts one glTF document per Run call.
type Baker struct {
	cfg *config.Config
}

// New creates a baker with the given configuration.
func New(cfg *config.Config) *Baker {
	return &Baker{cfg: cfg}
}

// Run converts the document at inputPath. Every error is terminal: on error
// no mesh asset has been written.
func (b *Baker) Run(inputPath string) (*Report, error) {
	logger.Info("baking", zap.String("input", inputPath))

	doc, res, err := assets.Open(inputPath)
	if err != nil {
		return nil, err
	}

	blob, err := doc.Blob()
	if err != nil {
		return nil, fmt.Errorf("loading raw buffer: %w", err)
	}
	logger.Debug("raw buffer loaded", zap.Int("bytes", len(blob)))

	built, err := mesh.Build(doc, blob, mesh.Options{
		AllowCountMismatch: b.cfg.Mesh.AllowCountMismatch,
	})
	if err != nil {
		return nil, err
	}
	logLayout(built)

	outDir, err := b.cfg.OutputDir()
	if err != nil {
		return nil, err
	}
	w := &Writer{Dir: outDir}

	report := &Report{
		MeshPath: w.MeshPath(inputPath),
		Header:   built.Asset.Header,
	}

	if b.cfg.Textures.Enabled && len(doc.Textures) > 0 {
		paths, texErr := b.bakeTextures(doc, res, w)
		report.TexturePaths = paths
		if texErr != nil {
			if b.cfg.Textures.FailOnError {
				return nil, fmt.Errorf("converting textures: %w", texErr)
			}
			for _, e := range multierr.Errors(texErr) {
				logger.Warn("texture skipped", zap.Error(e))
			}
			report.TextureErr = texErr
		}
	}

	n, err := w.Write(report.MeshPath, built.Asset)
	if err != nil {
		return nil, err
	}
	logger.Info("mesh written",
		zap.String("path", report.MeshPath),
		zap.Int64("bytes", n))

	return report, nil
}

func (b *Baker) bakeTextures(doc *formats.Document, res *assets.Resolver, w *Writer) ([]string, error) {
	converted, errs := texture.Convert(doc, res, texture.Options{MaxSize: b.cfg.Textures.MaxSize})

	var paths []string
	for _, c := range converted {
		path := w.Path(c.Name, ".tex")
		if _, err := w.Write(path, c.Asset); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		paths = append(paths, path)
		logger.Info("texture written",
			zap.String("path", path),
			zap.Uint32("width", c.Asset.Header.Width),
			zap.Uint32("height", c.Asset.Header.Height))

		if b.cfg.Textures.WebPPreview {
			preview := w.Path(c.Name, ".webp")
			if _, err := w.Write(preview, writerFunc(func(out io.Writer) error {
				return texture.EncodePreview(out, c)
			})); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	return paths, errs
}

func logLayout(r *mesh.Result) {
	h := r.Asset.Header
	logger.Info("mesh built",
		zap.Uint32("vertices", h.VertexCount),
		zap.Uint32("stride", h.VertexStride),
		zap.Uint32("indices", h.IndexCount),
		zap.Uint32("texcoords", h.TexcoordCount),
		zap.Uint32("texcoordOffset", h.TexcoordOffset))

	for _, name := range r.Layout.Ignored {
		logger.Debug("attribute ignored", zap.String("attribute", name))
	}
	if r.Indices.Count > 0 {
		logger.Debug("index buffer", zap.Stringer("component", r.Indices.ComponentType))
	}
	if bounds, ok := mesh.PositionBounds(r.Layout); ok {
		logger.Debug("position bounds",
			zap.Any("min", bounds.Min),
			zap.Any("max", bounds.Max))
	}
}
