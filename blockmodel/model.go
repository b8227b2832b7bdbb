// Package blockmodel converts mesh snapshots into the quad-only block model
// document read by the game's BlockModel loader.
package blockmodel

import (
	"strconv"

	"github.com/pkg/errors"
)

// NoMaterialName is used for faces whose material slot is empty.
const NoMaterialName = "none"

const (
	positionDigits = 5
	defaultDigits  = 4
)

// Vertex is one quad corner in the loader's Y-up space. All values are
// already rounded.
type Vertex struct {
	Position [3]float64
	UV       [2]float64
	Normal   [3]float64
}

type Quad struct {
	TextureID int
	Verts     [4]Vertex
}

type Model struct {
	TextureNames []string
	Quads        []*Quad
}

// Validate checks the texture table invariants.
func (m *Model) Validate() error {
	seen := make(map[string]int, len(m.TextureNames))
	for i, name := range m.TextureNames {
		if j, ok := seen[name]; ok {
			return errors.Errorf("duplicate texture name %q at %d and %d", name, j, i)
		}
		seen[name] = i
	}
	for i, q := range m.Quads {
		if q.TextureID < 0 || q.TextureID >= len(m.TextureNames) {
			return errors.Errorf("quad %d: texture id %d out of range [0, %d)", i, q.TextureID, len(m.TextureNames))
		}
	}
	return nil
}

// round rounds to digits decimals, ties to even, and drops negative zero.
// Exact binary ties such as 0.03125 round down to 0.0312.
func round(v float64, digits int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if r == 0 {
		return 0
	}
	return r
}

// textureTable assigns indices in first-seen order.
type textureTable struct {
	names []string
	index map[string]int
}

func newTextureTable() *textureTable {
	return &textureTable{names: []string{}, index: map[string]int{}}
}

func (t *textureTable) id(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	t.names = append(t.names, name)
	t.index[name] = len(t.names) - 1
	return len(t.names) - 1
}
