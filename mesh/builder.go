package mesh

import "github.com/binzume/blockmodelconv/geom"

// Builder assembles a Mesh face by face, allocating one loop per corner.
type Builder struct {
	mesh  *Mesh
	uvs   *UVLayer
	loops int
}

func NewBuilder(name string) *Builder {
	return &Builder{mesh: NewMesh(name)}
}

func (b *Builder) AddVertex(v geom.Vector3) int {
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	return len(b.mesh.Vertices) - 1
}

// AddMaterial appends a slot. A nil material makes an empty slot.
func (b *Builder) AddMaterial(mat *Material) int {
	b.mesh.MaterialSlots = append(b.mesh.MaterialSlots, &MaterialSlot{Material: mat})
	return len(b.mesh.MaterialSlots) - 1
}

// AddFace appends a face. uvs may be nil; once any face carries UVs the
// mesh gets a UV layer and faces without UVs get (0, 0) for their loops.
func (b *Builder) AddFace(verts []int, uvs []geom.Vector2, material int) *Face {
	f := &Face{Verts: append([]int(nil), verts...), Material: material}
	loopBase := b.loops
	for i := range verts {
		f.Loops = append(f.Loops, loopBase+i)
	}
	if uvs != nil && b.uvs == nil {
		b.uvs = &UVLayer{Name: "UVMap", UVs: make([]geom.Vector2, loopBase)}
		b.mesh.UVLayers = append(b.mesh.UVLayers, b.uvs)
	}
	if b.uvs != nil {
		for i := range verts {
			var uv geom.Vector2
			if i < len(uvs) {
				uv = uvs[i]
			}
			b.uvs.UVs = append(b.uvs.UVs, uv)
		}
	}
	b.loops += len(verts)
	b.mesh.Faces = append(b.mesh.Faces, f)
	return f
}

// Mesh returns the built mesh. Absent face normals are computed.
func (b *Builder) Mesh() *Mesh {
	b.mesh.ComputeFaceNormals()
	return b.mesh
}
