package converter

import (
	"github.com/binzume/blockmodelconv/geom"
	"github.com/binzume/blockmodelconv/logger"
	"github.com/binzume/blockmodelconv/mesh"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

type GLTFToMeshOption struct {
	// Two triangles are merged into a quad only when their normals differ by
	// less than this (1 - cos). Default: 0.001
	PlanarEpsilon float32
}

type gltfToMesh struct {
	*GLTFToMeshOption
}

func NewGLTFToMeshConverter(options *GLTFToMeshOption) *gltfToMesh {
	if options == nil {
		options = &GLTFToMeshOption{}
	}
	if options.PlanarEpsilon == 0 {
		options.PlanarEpsilon = 0.001
	}
	return &gltfToMesh{GLTFToMeshOption: options}
}

type meshNode struct {
	node   *gltf.Node
	matrix *geom.Matrix4
}

func localMatrix(n *gltf.Node) *geom.Matrix4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return geom.NewMatrix4FromSlice(m[:])
	}
	return geom.NewTRSMatrix4(
		geom.NewVector3FromArray(n.Translation),
		geom.NewQuaternionFromArray(n.RotationOrDefault()),
		geom.NewVector3FromArray(n.ScaleOrDefault()))
}

// meshNodes returns nodes with a mesh and their world matrices, depth first.
func meshNodes(doc *gltf.Document) []*meshNode {
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var result []*meshNode
	visited := make([]bool, len(doc.Nodes))
	var walk func(i uint32, parent *geom.Matrix4)
	walk = func(i uint32, parent *geom.Matrix4) {
		if int(i) >= len(doc.Nodes) || visited[i] {
			return
		}
		visited[i] = true
		n := doc.Nodes[i]
		mat := parent.Mul(localMatrix(n))
		if n.Mesh != nil && int(*n.Mesh) < len(doc.Meshes) {
			result = append(result, &meshNode{node: n, matrix: mat})
		}
		for _, c := range n.Children {
			walk(c, mat)
		}
	}
	for i := range doc.Nodes {
		if !isChild[i] {
			walk(uint32(i), geom.NewMatrix4())
		}
	}
	return result
}

func nodeName(doc *gltf.Document, n *gltf.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return doc.Meshes[*n.Mesh].Name
}

func accessor(doc *gltf.Document, i uint32) (*gltf.Accessor, error) {
	if int(i) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", i)
	}
	acr := doc.Accessors[i]
	if acr.BufferView != nil && int(*acr.BufferView) >= len(doc.BufferViews) {
		return nil, errors.Errorf("accessor %d: buffer view %d out of range", i, *acr.BufferView)
	}
	if acr.BufferView != nil && int(doc.BufferViews[*acr.BufferView].Buffer) >= len(doc.Buffers) {
		return nil, errors.Errorf("accessor %d: buffer out of range", i)
	}
	return acr, nil
}

type triangle [3]int

func (c *gltfToMesh) triangleNormal(pos []geom.Vector3, t triangle) *geom.Vector3 {
	a, b, d := &pos[t[0]], &pos[t[1]], &pos[t[2]]
	return b.Sub(a).Cross(d.Sub(a)).Normalize()
}

// pair merges t1 and t2 when they share an edge in opposite directions and
// lie in one plane. The quad keeps t1's first corner where possible.
func (c *gltfToMesh) pair(pos []geom.Vector3, t1, t2 triangle) ([]int, bool) {
	for i := 0; i < 3; i++ {
		p, q, r := t1[i], t1[(i+1)%3], t1[(i+2)%3]
		for j := 0; j < 3; j++ {
			if t2[j] != q || t2[(j+1)%3] != p {
				continue
			}
			s := t2[(j+2)%3]
			if s == r {
				return nil, false
			}
			n1, n2 := c.triangleNormal(pos, t1), c.triangleNormal(pos, t2)
			if 1-n1.Dot(n2) > c.PlanarEpsilon {
				return nil, false
			}
			quad := []int{q, r, p, s}
			for k := range quad {
				if quad[k] == t1[0] {
					return append(quad[k:], quad[:k]...), true
				}
			}
			return quad, true
		}
	}
	return nil, false
}

// Convert copies the mesh of the node called name (node or mesh name). An
// empty name selects the first node with a mesh.
//
// Positions are transformed to world space and mapped from Y-up to Z-up, V is
// flipped. Consecutive triangles forming a planar quad are merged back into
// one face; the rest stay triangles.
func (c *gltfToMesh) Convert(doc *gltf.Document, name string) (*mesh.Mesh, error) {
	var target *meshNode
	for _, mn := range meshNodes(doc) {
		if name == "" || nodeName(doc, mn.node) == name || doc.Meshes[*mn.node.Mesh].Name == name {
			target = mn
			break
		}
	}
	if target == nil {
		return nil, errors.Wrapf(ErrObjectNotFound, "gltf node %q", name)
	}
	src := doc.Meshes[*target.node.Mesh]
	objName := nodeName(doc, target.node)

	b := mesh.NewBuilder(objName)
	for _, m := range doc.Materials {
		b.AddMaterial(&mesh.Material{Name: m.Name})
	}

	for pi, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			logger.Log.Warn("skip non-triangle primitive", zap.String("mesh", src.Name), zap.Int("primitive", pi))
			continue
		}
		a, ok := p.Attributes["POSITION"]
		if !ok {
			continue
		}
		acr, err := accessor(doc, a)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: primitive %d: POSITION", src.Name, pi)
		}
		positions, err := modeler.ReadPosition(doc, acr, [][3]float32{})
		if err != nil {
			return nil, errors.Wrapf(err, "%s: primitive %d: POSITION", src.Name, pi)
		}
		var texCoord [][2]float32
		if a, ok := p.Attributes["TEXCOORD_0"]; ok {
			acr, err := accessor(doc, a)
			if err == nil {
				texCoord, err = modeler.ReadTextureCoord(doc, acr, [][2]float32{})
			}
			if err != nil {
				return nil, errors.Wrapf(err, "%s: primitive %d: TEXCOORD_0", src.Name, pi)
			}
		}
		var indices []uint32
		if p.Indices != nil {
			acr, err := accessor(doc, *p.Indices)
			if err == nil {
				indices, err = modeler.ReadIndices(doc, acr, []uint32{})
			}
			if err != nil {
				return nil, errors.Wrapf(err, "%s: primitive %d: indices", src.Name, pi)
			}
		} else {
			for i := range positions {
				indices = append(indices, uint32(i))
			}
		}
		mat := -1
		if p.Material != nil {
			mat = int(*p.Material)
		}

		pos := make([]geom.Vector3, len(positions))
		base := 0
		for i, v := range positions {
			pos[i] = *target.matrix.ApplyTo(geom.NewVector3FromArray(v)).ZUpFromYUp()
			idx := b.AddVertex(pos[i])
			if i == 0 {
				base = idx
			}
		}

		var tris []triangle
		for i := 0; i+2 < len(indices); i += 3 {
			t := triangle{int(indices[i]), int(indices[i+1]), int(indices[i+2])}
			if t[0] >= len(pos) || t[1] >= len(pos) || t[2] >= len(pos) {
				return nil, errors.Errorf("%s: primitive %d: index out of range", src.Name, pi)
			}
			tris = append(tris, t)
		}

		addFace := func(corners []int) {
			verts := make([]int, len(corners))
			var uvs []geom.Vector2
			if texCoord != nil {
				uvs = make([]geom.Vector2, len(corners))
			}
			for i, v := range corners {
				verts[i] = base + v
				if uvs != nil && v < len(texCoord) {
					uvs[i] = geom.Vector2{X: texCoord[v][0], Y: 1 - texCoord[v][1]}
				}
			}
			b.AddFace(verts, uvs, mat)
		}
		for i := 0; i < len(tris); i++ {
			if i+1 < len(tris) {
				if quad, ok := c.pair(pos, tris[i], tris[i+1]); ok {
					addFace(quad)
					i++
					continue
				}
			}
			addFace(tris[i][:])
		}
	}
	return b.Mesh(), nil
}
