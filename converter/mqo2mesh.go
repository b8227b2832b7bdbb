package converter

import (
	"github.com/binzume/blockmodelconv/geom"
	"github.com/binzume/blockmodelconv/mesh"
	"github.com/binzume/blockmodelconv/mqo"
	"github.com/pkg/errors"
)

type MQOToMeshOption struct {
	Scale float32 // Default: 1
}

type mqoToMesh struct {
	*MQOToMeshOption
}

func NewMQOToMeshConverter(options *MQOToMeshOption) *mqoToMesh {
	if options == nil {
		options = &MQOToMeshOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1
	}
	return &mqoToMesh{MQOToMeshOption: options}
}

// Convert copies one object. An empty name selects the first visible object
// with faces.
//
// Metasequoia is Y-up with clockwise front faces and a top-left UV origin, so
// positions become (x, -z, y), corners are reversed after the first one and
// V is flipped.
func (c *mqoToMesh) Convert(doc *mqo.Document, name string) (*mesh.Mesh, error) {
	obj := doc.FindObject(name)
	if obj == nil {
		return nil, errors.Wrapf(ErrObjectNotFound, "mqo object %q", name)
	}

	b := mesh.NewBuilder(obj.Name)
	for _, mat := range doc.Materials {
		b.AddMaterial(&mesh.Material{Name: mat.Name})
	}
	for _, v := range obj.Vertexes {
		b.AddVertex(*v.ZUpFromYUp().Scale(c.Scale))
	}

	for _, f := range obj.Faces {
		n := len(f.Verts)
		verts := make([]int, n)
		var uvs []geom.Vector2
		if len(f.UVs) == n {
			uvs = make([]geom.Vector2, n)
		}
		for i := range f.Verts {
			src := (n - i) % n
			verts[i] = f.Verts[src]
			if uvs != nil {
				uvs[i] = geom.Vector2{X: f.UVs[src].X, Y: 1 - f.UVs[src].Y}
			}
		}
		b.AddFace(verts, uvs, f.Material)
	}
	return b.Mesh(), nil
}
