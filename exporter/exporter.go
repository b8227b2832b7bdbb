// Package exporter runs one export: extract the block model from a mesh
// snapshot and write it next to the other exported models.
package exporter

import (
	"github.com/binzume/blockmodelconv/blockmodel"
	"github.com/binzume/blockmodelconv/config"
	"github.com/binzume/blockmodelconv/logger"
	"github.com/binzume/blockmodelconv/mesh"
	"go.uber.org/zap"
)

type Result struct {
	Path   string
	Model  *blockmodel.Model
	Report *blockmodel.ExtractReport
}

type Exporter struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Exporter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Exporter{cfg: cfg}
}

// Export writes OutputDir/<mesh name>.json. Nothing is written when
// extraction fails.
func (e *Exporter) Export(m *mesh.Mesh) (*Result, error) {
	model, report, err := blockmodel.NewExtractor(e.cfg.ExtractOption()).Extract(m)
	if err != nil {
		return nil, err
	}
	if len(report.SkippedFaces) > 0 {
		logger.Log.Warn("skipped non-quad faces",
			zap.String("object", m.Name),
			zap.Ints("faces", report.SkippedFaces))
	}

	path, err := blockmodel.Save(model, e.cfg.OutputDir, m.Name)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("exported",
		zap.String("object", m.Name),
		zap.String("path", path),
		zap.Int("quads", len(model.Quads)),
		zap.Int("textures", len(model.TextureNames)),
		zap.Int("format", blockmodel.FormatVersion))
	return &Result{Path: path, Model: model, Report: report}, nil
}
