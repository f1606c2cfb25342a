package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// gltfLoaderBackend is the loaderBackend for glTF and GLB files.
type gltfLoaderBackend struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfLoaderBackend{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackend{importer: newGLTFImporter()}
}

func (b *gltfLoaderBackend) Load(path string) (*model.ImportedModel, error) {
	return b.importer.Import(path)
}

func (b *gltfLoaderBackend) LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	return b.importer.ImportReader(name, r, isGLB)
}
