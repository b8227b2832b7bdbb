package blockmodel

import (
	"fmt"
	"math"

	"github.com/binzume/blockmodelconv/geom"
	"github.com/binzume/blockmodelconv/mesh"
	"github.com/pkg/errors"
)

// FacePolicy decides what happens to faces that are not quads.
type FacePolicy int

const (
	// FailFast aborts the extraction at the first non-quad face.
	FailFast FacePolicy = iota
	// SkipMalformed drops non-quad faces and lists them in the report.
	SkipMalformed
)

func (p FacePolicy) String() string {
	switch p {
	case FailFast:
		return "fail"
	case SkipMalformed:
		return "skip"
	}
	return fmt.Sprintf("FacePolicy(%d)", int(p))
}

type ExtractOption struct {
	OmitNormals bool // emit zero normals
	Policy      FacePolicy
}

// ExtractReport lists faces dropped under SkipMalformed.
type ExtractReport struct {
	SkippedFaces []int
}

type extractor struct {
	*ExtractOption
}

func NewExtractor(options *ExtractOption) *extractor {
	if options == nil {
		options = &ExtractOption{}
	}
	return &extractor{ExtractOption: options}
}

// Extract builds a Model from m. Loop/vertex mismatches, bad indices,
// NaN or Inf coordinates and a missing UV layer always fail. The mesh is not
// modified.
func (e *extractor) Extract(m *mesh.Mesh) (*Model, *ExtractReport, error) {
	if m == nil {
		return nil, nil, ErrNilMesh
	}
	report := &ExtractReport{}
	var uvs *mesh.UVLayer
	if len(m.Faces) > 0 {
		if uvs = m.ActiveUVs(); uvs == nil {
			return nil, nil, errors.Wrap(ErrNoUVLayer, m.Name)
		}
	}

	textures := newTextureTable()
	quads := make([]*Quad, 0, len(m.Faces))
	for fi, f := range m.Faces {
		if len(f.Verts) != len(f.Loops) {
			return nil, nil, &FaceError{Mesh: m.Name, Face: fi, Reason: ErrLoopMismatch,
				Detail: fmt.Sprintf("%d vertices, %d loops", len(f.Verts), len(f.Loops))}
		}
		if len(f.Verts) != 4 {
			if e.Policy == SkipMalformed {
				report.SkippedFaces = append(report.SkippedFaces, fi)
				continue
			}
			return nil, nil, &FaceError{Mesh: m.Name, Face: fi, Reason: ErrNotQuad,
				Detail: fmt.Sprintf("%d vertices", len(f.Verts))}
		}

		q := &Quad{}
		for i := 0; i < 4; i++ {
			vi, li := f.Verts[i], f.Loops[i]
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, nil, &FaceError{Mesh: m.Name, Face: fi, Reason: ErrIndexOutOfRange,
					Detail: fmt.Sprintf("vertex %d", vi)}
			}
			if li < 0 || li >= len(uvs.UVs) {
				return nil, nil, &FaceError{Mesh: m.Name, Face: fi, Reason: ErrIndexOutOfRange,
					Detail: fmt.Sprintf("loop %d", li)}
			}
			normal := f.Normal
			if e.OmitNormals {
				normal = nil
			}
			if what := nonFinite(&m.Vertices[vi], &uvs.UVs[li], normal); what != "" {
				return nil, nil, &FaceError{Mesh: m.Name, Face: fi, Reason: ErrNotFinite,
					Detail: fmt.Sprintf("%s of corner %d", what, i)}
			}
			q.Verts[i] = e.vertex(&m.Vertices[vi], &uvs.UVs[li], f.Normal)
		}
		q.TextureID = textures.id(textureName(m.Material(f.Material)))
		quads = append(quads, q)
	}

	return &Model{TextureNames: textures.names, Quads: quads}, report, nil
}

func textureName(mat *mesh.Material) string {
	if mat == nil || mat.Name == "" {
		return NoMaterialName
	}
	return mat.Name
}

func finite(values ...float32) bool {
	for _, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// nonFinite names the first attribute holding NaN or Inf, or returns "".
func nonFinite(pos *geom.Vector3, uv *geom.Vector2, normal *geom.Vector3) string {
	switch {
	case !finite(pos.X, pos.Y, pos.Z):
		return "position"
	case !finite(uv.X, uv.Y):
		return "uv"
	case normal != nil && !finite(normal.X, normal.Y, normal.Z):
		return "normal"
	}
	return ""
}

// vertex swaps Y/Z, flips U and rounds. A nil normal is written as zero.
func (e *extractor) vertex(pos *geom.Vector3, uv *geom.Vector2, normal *geom.Vector3) Vertex {
	v := Vertex{
		Position: [3]float64{
			round(float64(pos.X), positionDigits),
			round(float64(pos.Z), positionDigits),
			round(float64(pos.Y), positionDigits),
		},
		UV: [2]float64{
			round(math.Abs(1-float64(uv.X)), defaultDigits),
			round(float64(uv.Y), defaultDigits),
		},
	}
	if normal != nil && !e.OmitNormals {
		v.Normal = [3]float64{
			round(float64(normal.X), defaultDigits),
			round(float64(normal.Z), defaultDigits),
			round(float64(normal.Y), defaultDigits),
		}
	}
	return v
}
