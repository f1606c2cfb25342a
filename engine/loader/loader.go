// Package loader imports glTF geometry, decodes texture images off the render thread and watches
// shader source files for changes.
//
// Nothing here touches the GPU. Textures come back unloaded and fill in from worker goroutines; the
// renderer uploads them once they report loaded. Shader edits are queued and handed to the render
// thread through Drain.
package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// ErrUnsupportedFormat is returned for model files the loader has no backend for.
var ErrUnsupportedFormat = errors.New("loader: unsupported format")

// ErrClosed is returned by operations on a closed Loader.
var ErrClosed = errors.New("loader: closed")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	backend       loaderBackend
	geometryCache map[string]model.Geometry

	workers   int
	queueSize int
	pool      worker.DynamicWorkerPool
	pending   sync.WaitGroup

	watcher  *fsnotify.Watcher
	watches  map[string][]*shaderWatch
	updates  []material.SourceUpdate
	watchDone chan struct{}

	closed bool
}

// shaderWatch ties one shader material to its two source files.
type shaderWatch struct {
	material     material.Material
	vertexPath   string
	fragmentPath string
}

// Loader imports geometry and textures and watches shader sources.
type Loader interface {
	// LoadGeometry imports a glTF or GLB file and caches it by path. Every triangle primitive of the
	// default scene becomes Face3 faces carrying a Phong material built from the glTF material;
	// base color textures are decoded in the background.
	//
	// Parameters:
	//   - path: the .gltf or .glb file
	//
	// Returns:
	//   - model.Geometry: the flattened geometry, to be drawn with material.NewFaceMaterial
	//   - error: ErrUnsupportedFormat for other extensions, or the import error
	LoadGeometry(path string) (model.Geometry, error)

	// LoadGeometryReader imports a glTF document from a reader and caches it by name.
	//
	// Parameters:
	//   - name: the cache key and geometry name
	//   - r: the reader providing the document
	//   - isGLB: true for GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - model.Geometry: the flattened geometry
	//   - error: error if import fails
	LoadGeometryReader(name string, r io.Reader, isGLB bool) (model.Geometry, error)

	// Get returns a cached geometry, or nil.
	Get(name string) model.Geometry

	// LoadTexture returns an unloaded texture immediately and decodes path into it on a worker.
	// A decode failure is logged and leaves the texture unloaded.
	//
	// Parameters:
	//   - path: the image file
	//   - options: texture options applied after the name is set to path
	//
	// Returns:
	//   - texture.Texture2D: the texture
	LoadTexture(path string, options ...texture.Texture2DBuilderOption) texture.Texture2D

	// LoadCubeTexture returns an empty cube texture immediately and decodes each face on a worker.
	//
	// Parameters:
	//   - paths: the face images in +X, -X, +Y, -Y, +Z, -Z order
	//   - options: cube texture options
	//
	// Returns:
	//   - texture.CubeTexture: the cube texture
	LoadCubeTexture(paths [texture.CubeFaceCount]string, options ...texture.CubeTextureBuilderOption) texture.CubeTexture

	// WatchShader reads both source files, queues them for m, and queues them again every time
	// either file is written.
	//
	// Parameters:
	//   - m: a KindShader material
	//   - vertexPath: the vertex shader source file
	//   - fragmentPath: the fragment shader source file
	//
	// Returns:
	//   - error: error if m is not a shader material, a file cannot be read or the watch fails
	WatchShader(m material.Material, vertexPath, fragmentPath string) error

	// Drain returns and clears the queued shader source updates, one per material.
	Drain() []material.SourceUpdate

	// Wait blocks until every submitted image decode has finished.
	Wait()

	// Close stops the file watcher and the decode workers.
	Close() error
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the given backend and starts its decode workers.
//
// Parameters:
//   - backendType: the model format backend (BackendTypeGLTF)
//   - options: variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		geometryCache: make(map[string]model.Geometry),
		watches:       make(map[string][]*shaderWatch),
		workers:       4,
		queueSize:     64,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}

	l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, time.Second)
	return l
}

func (l *loader) LoadGeometry(path string) (model.Geometry, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if l.backend == nil {
		return nil, fmt.Errorf("%w: no backend", ErrUnsupportedFormat)
	}

	imported, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, imported), nil
}

func (l *loader) LoadGeometryReader(name string, r io.Reader, isGLB bool) (model.Geometry, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, fmt.Errorf("%w: no backend", ErrUnsupportedFormat)
	}

	imported, err := l.backend.LoadReader(name, r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, imported), nil
}

func (l *loader) store(key string, imported *model.ImportedModel) model.Geometry {
	geo := l.importedToGeometry(imported)

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.geometryCache[key]; ok {
		return cached
	}
	l.geometryCache[key] = geo
	common.Logger().Info("geometry loaded", "name", key, "vertices", len(geo.Vertices()), "faces", len(geo.Faces()))
	return geo
}

func (l *loader) Get(name string) model.Geometry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.geometryCache[name]
}

// importedToGeometry concatenates every imported mesh into one geometry. Each triangle becomes a
// Face3 with corner normals and UVs when the mesh has them.
func (l *loader) importedToGeometry(imported *model.ImportedModel) model.Geometry {
	mats := make([]material.Material, len(imported.Materials))
	for i := range imported.Materials {
		mats[i] = l.importedToMaterial(&imported.Materials[i])
	}
	var fallback material.Material

	geo := model.NewGeometry(model.WithName(imported.Name))
	for mi := range imported.Meshes {
		mesh := &imported.Meshes[mi]

		var mat material.Material
		if mesh.MaterialIndex >= 0 && mesh.MaterialIndex < len(mats) {
			mat = mats[mesh.MaterialIndex]
		} else {
			if fallback == nil {
				fallback = material.NewMaterial(material.KindPhong, material.WithName(imported.Name+"_default"))
			}
			mat = fallback
		}

		base := len(geo.Vertices())
		for _, p := range mesh.Positions {
			geo.AddVertex(p)
		}

		for t := 0; t+2 < len(mesh.Indices); t += 3 {
			a, b, c := int(mesh.Indices[t]), int(mesh.Indices[t+1]), int(mesh.Indices[t+2])
			face := model.NewFace3(base+a, base+b, base+c, mat)
			if len(mesh.Normals) > 0 {
				face.VertexNormals = []mgl32.Vec3{mesh.Normals[a], mesh.Normals[b], mesh.Normals[c]}
			}
			if len(mesh.UVs) > 0 {
				face.UVs = []mgl32.Vec2{mesh.UVs[a], mesh.UVs[b], mesh.UVs[c]}
			}
			geo.AddFace(face)
		}
	}

	geo.ComputeFaceNormals()
	return geo
}

func (l *loader) importedToMaterial(imp *model.ImportedMaterial) material.Material {
	options := []material.MaterialBuilderOption{
		material.WithName(imp.Name),
		material.WithColor([3]float32{imp.BaseColor[0], imp.BaseColor[1], imp.BaseColor[2]}),
		material.WithOpacity(imp.BaseColor[3]),
	}
	if imp.DiffuseTexture != nil {
		tex := texture.NewTexture2D(texture.WithName(imp.DiffuseTexture.Name), texture.WithWrap(imp.WrapS, imp.WrapT))
		l.decode(imp.DiffuseTexture, tex.SetImage)
		options = append(options, material.WithMap(tex))
	}
	return material.NewMaterial(material.KindPhong, options...)
}

func (l *loader) LoadTexture(path string, options ...texture.Texture2DBuilderOption) texture.Texture2D {
	tex := texture.NewTexture2D(append([]texture.Texture2DBuilderOption{texture.WithName(path)}, options...)...)
	l.decode(&common.ImportedTexture{Name: path, Path: path}, tex.SetImage)
	return tex
}

func (l *loader) LoadCubeTexture(paths [texture.CubeFaceCount]string, options ...texture.CubeTextureBuilderOption) texture.CubeTexture {
	cube := texture.NewCubeTexture(append([]texture.CubeTextureBuilderOption{texture.WithCubeName(paths[0])}, options...)...)
	for i, path := range paths {
		l.decode(&common.ImportedTexture{Name: path, Path: path}, func(data *common.TextureStagingData) {
			cube.SetFace(i, data)
		})
	}
	return cube
}

// decode submits an image decode to the worker pool and publishes the result through set.
func (l *loader) decode(src *common.ImportedTexture, set func(*common.TextureStagingData)) {
	l.mu.RLock()
	closed := l.closed
	l.mu.RUnlock()
	if closed {
		common.Logger().Warn("texture decode after close", "texture", src.Name)
		return
	}

	l.pending.Add(1)
	l.pool.SubmitTask(worker.Task{
		Payload: src,
		Do: func() (any, error) {
			defer l.pending.Done()
			data, err := src.Decode()
			if err != nil {
				common.Logger().Error("texture decode failed", "texture", src.Name, "error", err)
				return nil, err
			}
			set(data)
			common.Logger().Debug("texture decoded", "texture", src.Name, "width", data.Width, "height", data.Height)
			return data, nil
		},
	})
}

func (l *loader) Wait() {
	l.pending.Wait()
}

func (l *loader) Drain() []material.SourceUpdate {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.updates
	l.updates = nil
	return out
}

func (l *loader) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	w := l.watcher
	done := l.watchDone
	l.mu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
		<-done
	}
	l.pending.Wait()
	l.pool.Stop()
	return err
}
