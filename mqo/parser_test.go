package mqo

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

const testDocument = `Metasequoia Document
Format Text Ver 1.1
CodePage utf8

Thumbnail 4 4 24 rgb raw {
	0000ff0000ff0000ff0000ff
	0000ff0000ff0000ff0000ff
}
Scene {
	pos 0.0000 0.0000 1500.0000
	lookat 0.0000 0.0000 0.0000
	amb 0.250 0.250 0.250
	dirlights 1 {
		light {
			dir 0.408 0.408 0.816
			color 1.000 1.000 1.000
		}
	}
}
Material 2 {
	"stone" shader(3) col(1.000 1.000 1.000 1.000) dif(0.800) amb(0.600) emi(0.000) spc(0.000) power(5.00) tex("tex\stone.png")
	"grass" col(0.5 0.5 0.5 1.0)
}
Object "block" {
	depth 0
	folding 0
	scale 1.000000 1.000000 1.000000
	visible 15
	locking 0
	shading 1
	facet 59.5
	color 0.898 0.498 0.698
	color_type 0
	vertex 5 {
		0.0000 0.0000 0.0000
		100.0000 0.0000 0.0000
		100.0000 100.0000 0.0000
		0.0000 100.0000 -1.5e+1
		-50 0 0
	}
	vertexattr {
		uid {
			1
			2
			3
			4
			5
		}
	}
	face 2 {
		4 V(0 1 2 3) M(0) UV(0.00000 1.00000 1.00000 1.00000 1.00000 0.00000 0.00000 0.00000)
		3 V(0 3 4) COL(4294967295 4294967295 4294967295)
	}
}
Object "hidden" {
	visible 0
	vertex 0 {
	}
	face 0 {
	}
}
Eof
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(testDocument), "test.mqo")
	if err != nil {
		t.Fatal(err)
	}

	if len(doc.Materials) != 2 {
		t.Fatal("materials", doc.Materials)
	}
	if doc.Materials[0].Name != "stone" {
		t.Error("material 0", doc.Materials[0])
	}
	if doc.Materials[1].Name != "grass" {
		t.Error("material 1", doc.Materials[1])
	}

	if len(doc.Objects) != 2 {
		t.Fatal("objects", len(doc.Objects))
	}
	obj := doc.Objects[0]
	if obj.Name != "block" || !obj.Visible || len(obj.Vertexes) != 5 || len(obj.Faces) != 2 {
		t.Fatal("object", obj)
	}
	if v := obj.Vertexes[3]; v.Y != 100 || v.Z != -15 {
		t.Error("vertex 3", v)
	}
	if v := obj.Vertexes[4]; v.X != -50 {
		t.Error("vertex 4", v)
	}

	quad := obj.Faces[0]
	if len(quad.Verts) != 4 || quad.Verts[2] != 2 || quad.Material != 0 {
		t.Error("face 0", quad)
	}
	if len(quad.UVs) != 4 || quad.UVs[1].X != 1 || quad.UVs[2].Y != 0 {
		t.Error("face 0 uv", quad.UVs)
	}
	tri := obj.Faces[1]
	if len(tri.Verts) != 3 || tri.Material != -1 || tri.UVs != nil {
		t.Error("face 1", tri)
	}

	if doc.Objects[1].Visible {
		t.Error("hidden object should not be visible")
	}
	if doc.FindObject("") != obj || doc.FindObject("hidden") != doc.Objects[1] || doc.FindObject("nothing") != nil {
		t.Error("FindObject")
	}
}

func TestParseShiftJIS(t *testing.T) {
	src := strings.Replace(testDocument, "CodePage utf8\n", "", 1)
	src = strings.Replace(src, `"grass"`, `"草ブロック"`, 1)
	sjis, err := japanese.ShiftJIS.NewEncoder().String(src)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Parse(strings.NewReader(sjis), "sjis.mqo")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Materials[1].Name != "草ブロック" {
		t.Error("material name", doc.Materials[1].Name)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"vertex": "Object \"o\" {\n vertex 1 {\n 0 zero 0\n }\n}\nEof\n",
		"face":   "Object \"o\" {\n face 1 {\n 4 M(0)\n }\n}\nEof\n",
		"eof":    "Object \"o\" {\n vertex 1 {\n",
	}
	for name, src := range cases {
		if _, err := Parse(strings.NewReader(src), name+".mqo"); err == nil {
			t.Errorf("%s: expected error", name)
		} else if !strings.Contains(err.Error(), name+".mqo") {
			t.Errorf("%s: error should name the file: %v", name, err)
		}
	}
}

func TestLoadMQOZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mqoz")
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("test.mqo")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(testDocument))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Objects) != 2 || doc.Objects[0].Name != "block" {
		t.Error("unexpected document", doc.Objects)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.mqo")); err == nil {
		t.Error("missing file should fail")
	}
}
