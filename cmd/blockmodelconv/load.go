package main

import (
	"path/filepath"
	"strings"

	"github.com/binzume/blockmodelconv/config"
	"github.com/binzume/blockmodelconv/converter"
	"github.com/binzume/blockmodelconv/mesh"
	"github.com/binzume/blockmodelconv/mqo"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

var spewConfig = &spew.ConfigState{Indent: " ", DisableCapacities: true, DisablePointerAddresses: true}

// loadMesh reads input and converts one object of it to a mesh snapshot.
func loadMesh(input, object string, cfg *config.Config) (*mesh.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".mqo", ".mqoz":
		doc, err := mqo.Load(input)
		if err != nil {
			return nil, err
		}
		return converter.NewMQOToMeshConverter(&converter.MQOToMeshOption{Scale: cfg.Scale}).Convert(doc, object)
	case ".gltf", ".glb":
		doc, err := gltf.Open(input)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", input)
		}
		return converter.NewGLTFToMeshConverter(nil).Convert(doc, object)
	default:
		return nil, errors.Errorf("unsupported input type: %v", ext)
	}
}
