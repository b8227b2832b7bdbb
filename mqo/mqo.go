// Package mqo reads Metasequoia documents (.mqo, .mqoz). Only materials and
// polygon objects are kept; plugins, thumbnails and scene settings are skipped.
package mqo

import "github.com/binzume/blockmodelconv/geom"

type Material struct {
	Name string
}

// Face corners are stored in Metasequoia order (clockwise front faces).
type Face struct {
	Verts    []int
	Material int // -1: no material
	UVs      []geom.Vector2
}

type Object struct {
	Name     string
	Visible  bool
	Vertexes []*geom.Vector3
	Faces    []*Face
}

func NewObject(name string) *Object {
	return &Object{Name: name, Visible: true}
}

type Document struct {
	Materials []*Material
	Objects   []*Object
}

func NewDocument() *Document {
	return &Document{}
}

// FindObject returns the object called name, or the first visible object
// with faces when name is empty.
func (doc *Document) FindObject(name string) *Object {
	for _, o := range doc.Objects {
		if name == "" && o.Visible && len(o.Faces) > 0 || name != "" && o.Name == name {
			return o
		}
	}
	return nil
}
