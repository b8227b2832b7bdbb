package blockmodel

import (
	"bytes"
	"strings"
	"testing"
)

const stoneDocument = `{
    "TextureNames": [
        "stone"
    ],
    "Quads": [
        {
            "TextureId": 0,
            "Vert0": {
                "X": 0.0,
                "Y": 0.0,
                "Z": 0.0,
                "U": 1.0,
                "V": 0.0,
                "N": 0.0,
                "O": 0.0,
                "P": 0.0
            },
            "Vert1": {
                "X": 1.0,
                "Y": 0.0,
                "Z": 0.0,
                "U": 0.0,
                "V": 0.0,
                "N": 0.0,
                "O": 0.0,
                "P": 0.0
            },
            "Vert2": {
                "X": 1.0,
                "Y": 1.0,
                "Z": 0.0,
                "U": 0.0,
                "V": 1.0,
                "N": 0.0,
                "O": 0.0,
                "P": 0.0
            },
            "Vert3": {
                "X": 0.0,
                "Y": 1.0,
                "Z": 0.0,
                "U": 1.0,
                "V": 1.0,
                "N": 0.0,
                "O": 0.0,
                "P": 0.0
            }
        }
    ]
}
`

func TestEncode(t *testing.T) {
	model, _, err := NewExtractor(&ExtractOption{OmitNormals: true}).Extract(stoneQuad())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, model); err != nil {
		t.Fatal(err)
	}
	if buf.String() != stoneDocument {
		t.Errorf("unexpected document:\n%s", buf.String())
	}
}

func TestEncodeIdempotent(t *testing.T) {
	m := stoneQuad()
	var a, b bytes.Buffer
	for _, buf := range []*bytes.Buffer{&a, &b} {
		model, _, err := NewExtractor(nil).Extract(m)
		if err != nil {
			t.Fatal(err)
		}
		if err := Encode(buf, model); err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("output differs between runs")
	}
}

func TestEncodeDecimals(t *testing.T) {
	model := &Model{
		TextureNames: []string{"a&b"},
		Quads: []*Quad{{Verts: [4]Vertex{
			{Position: [3]float64{0.12346, -1.5, 100}, UV: [2]float64{0.0001, 0.5}, Normal: [3]float64{0, -1, 0}},
		}}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, model); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{`"X": 0.12346,`, `"Y": -1.5,`, `"Z": 100.0,`, `"U": 0.0001,`, `"O": -1.0,`, `"a&b"`} {
		if !strings.Contains(out, s) {
			t.Errorf("%s not found in:\n%s", s, out)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, &Model{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n    \"TextureNames\": [],\n    \"Quads\": []\n}\n" {
		t.Errorf("unexpected document: %q", buf.String())
	}
}

func TestEncodeInvalid(t *testing.T) {
	dup := &Model{TextureNames: []string{"a", "a"}}
	if err := Encode(&bytes.Buffer{}, dup); err == nil {
		t.Error("duplicate names should be rejected")
	}
	bad := &Model{TextureNames: []string{"a"}, Quads: []*Quad{{TextureID: 1}}}
	if err := Encode(&bytes.Buffer{}, bad); err == nil {
		t.Error("out of range texture id should be rejected")
	}
}

func TestDecode(t *testing.T) {
	model, err := Decode(strings.NewReader(stoneDocument))
	if err != nil {
		t.Fatal(err)
	}
	if len(model.Quads) != 1 || model.TextureNames[0] != "stone" {
		t.Fatal("unexpected model", model)
	}
	if model.Quads[0].Verts[2].Position != [3]float64{1, 1, 0} || model.Quads[0].Verts[3].UV != [2]float64{1, 1} {
		t.Error("unexpected vertex", model.Quads[0].Verts)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, model); err != nil {
		t.Fatal(err)
	}
	if buf.String() != stoneDocument {
		t.Error("re-encoded document differs")
	}

	if _, err := Decode(strings.NewReader(`{"TextureNames":[],"Quads":[{"TextureId":0}]}`)); err == nil {
		t.Error("dangling texture id should fail")
	}
}
