package blockmodel

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FormatVersion identifies the document layout below. The loader has no
// version field, so any change here is a breaking change for it.
const FormatVersion = 1

// decimal always carries a fractional part, e.g. 1.0 instead of 1.
type decimal float64

func (d decimal) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(d)) || math.IsInf(float64(d), 0) {
		return nil, errors.Errorf("unsupported value %v", float64(d))
	}
	s := strconv.FormatFloat(float64(d), 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return []byte(s), nil
}

type vertexDoc struct {
	X decimal `json:"X"`
	Y decimal `json:"Y"`
	Z decimal `json:"Z"`
	U decimal `json:"U"`
	V decimal `json:"V"`
	N decimal `json:"N"`
	O decimal `json:"O"`
	P decimal `json:"P"`
}

type quadDoc struct {
	TextureID int       `json:"TextureId"`
	Vert0     vertexDoc `json:"Vert0"`
	Vert1     vertexDoc `json:"Vert1"`
	Vert2     vertexDoc `json:"Vert2"`
	Vert3     vertexDoc `json:"Vert3"`
}

type document struct {
	TextureNames []string  `json:"TextureNames"`
	Quads        []quadDoc `json:"Quads"`
}

func toVertexDoc(v *Vertex) vertexDoc {
	return vertexDoc{
		X: decimal(v.Position[0]), Y: decimal(v.Position[1]), Z: decimal(v.Position[2]),
		U: decimal(v.UV[0]), V: decimal(v.UV[1]),
		N: decimal(v.Normal[0]), O: decimal(v.Normal[1]), P: decimal(v.Normal[2]),
	}
}

func fromVertexDoc(d *vertexDoc) Vertex {
	return Vertex{
		Position: [3]float64{float64(d.X), float64(d.Y), float64(d.Z)},
		UV:       [2]float64{float64(d.U), float64(d.V)},
		Normal:   [3]float64{float64(d.N), float64(d.O), float64(d.P)},
	}
}

func toDocument(m *Model) *document {
	doc := &document{
		TextureNames: append([]string{}, m.TextureNames...),
		Quads:        make([]quadDoc, 0, len(m.Quads)),
	}
	for _, q := range m.Quads {
		doc.Quads = append(doc.Quads, quadDoc{
			TextureID: q.TextureID,
			Vert0:     toVertexDoc(&q.Verts[0]),
			Vert1:     toVertexDoc(&q.Verts[1]),
			Vert2:     toVertexDoc(&q.Verts[2]),
			Vert3:     toVertexDoc(&q.Verts[3]),
		})
	}
	return doc
}

// Encode writes m as an indented document.
func Encode(w io.Writer, m *Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(toDocument(m))
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*Model, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	m := &Model{TextureNames: doc.TextureNames}
	if m.TextureNames == nil {
		m.TextureNames = []string{}
	}
	for i := range doc.Quads {
		d := &doc.Quads[i]
		m.Quads = append(m.Quads, &Quad{
			TextureID: d.TextureID,
			Verts: [4]Vertex{
				fromVertexDoc(&d.Vert0),
				fromVertexDoc(&d.Vert1),
				fromVertexDoc(&d.Vert2),
				fromVertexDoc(&d.Vert3),
			},
		})
	}
	return m, m.Validate()
}
