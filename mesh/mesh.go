// Package mesh holds a read-only snapshot of one polygon object taken from an
// authoring tool. Coordinates are right-handed and Z-up.
package mesh

import "github.com/binzume/blockmodelconv/geom"

// Material.Name doubles as the texture name of the block model.
type Material struct {
	Name string
}

// MaterialSlot may be empty (Material == nil).
type MaterialSlot struct {
	Material *Material
}

// UVLayer holds one UV per loop.
type UVLayer struct {
	Name string
	UVs  []geom.Vector2
}

// Face references vertices and loops by index. Verts[i] and Loops[i] describe
// the same corner. Normal is nil when the source has no normal for the face.
type Face struct {
	Verts    []int
	Loops    []int
	Normal   *geom.Vector3
	Material int
}

type Mesh struct {
	Name          string
	Vertices      []geom.Vector3
	Faces         []*Face
	UVLayers      []*UVLayer
	ActiveUVLayer int
	MaterialSlots []*MaterialSlot
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// ActiveUVs returns the active UV layer or nil.
func (m *Mesh) ActiveUVs() *UVLayer {
	if m.ActiveUVLayer < 0 || m.ActiveUVLayer >= len(m.UVLayers) {
		return nil
	}
	return m.UVLayers[m.ActiveUVLayer]
}

// Material resolves a slot index. It returns nil for empty or missing slots.
func (m *Mesh) Material(slot int) *Material {
	if slot < 0 || slot >= len(m.MaterialSlots) || m.MaterialSlots[slot] == nil {
		return nil
	}
	return m.MaterialSlots[slot].Material
}

// ComputeFaceNormals fills absent face normals using Newell's method.
func (m *Mesh) ComputeFaceNormals() {
	for _, f := range m.Faces {
		if f.Normal != nil || len(f.Verts) < 3 {
			continue
		}
		n := &geom.Vector3{}
		valid := true
		for i, vi := range f.Verts {
			ni := f.Verts[(i+1)%len(f.Verts)]
			if vi < 0 || vi >= len(m.Vertices) || ni < 0 || ni >= len(m.Vertices) {
				valid = false
				break
			}
			a, b := &m.Vertices[vi], &m.Vertices[ni]
			n.X += (a.Y - b.Y) * (a.Z + b.Z)
			n.Y += (a.Z - b.Z) * (a.X + b.X)
			n.Z += (a.X - b.X) * (a.Y + b.Y)
		}
		if valid && n.LenSqr() > 0 {
			f.Normal = n.Normalize()
		}
	}
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Name:          m.Name,
		Vertices:      append([]geom.Vector3(nil), m.Vertices...),
		ActiveUVLayer: m.ActiveUVLayer,
	}
	for _, f := range m.Faces {
		cf := &Face{
			Verts:    append([]int(nil), f.Verts...),
			Loops:    append([]int(nil), f.Loops...),
			Material: f.Material,
		}
		if f.Normal != nil {
			n := *f.Normal
			cf.Normal = &n
		}
		c.Faces = append(c.Faces, cf)
	}
	for _, l := range m.UVLayers {
		c.UVLayers = append(c.UVLayers, &UVLayer{Name: l.Name, UVs: append([]geom.Vector2(nil), l.UVs...)})
	}
	for _, s := range m.MaterialSlots {
		cs := &MaterialSlot{}
		if s != nil && s.Material != nil {
			mat := *s.Material
			cs.Material = &mat
		}
		c.MaterialSlots = append(c.MaterialSlots, cs)
	}
	return c
}
