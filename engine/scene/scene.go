package scene

import (
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
)

// Scene holds the ordered objects and lights the renderer draws, plus the render list: the
// material-face-groups that already have GPU buffers. The renderer fills the render list through
// RegisterResident the first time it meets an object and empties it through Prune.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Count returns the number of objects in the scene.
	//
	// Returns:
	//   - int: count of objects
	Count() int

	// Add appends a GameObject to the scene. Objects without an ID are assigned the next free one.
	// An attached light is added to the light list and follows the object's position.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the object list by ID and detaches its light.
	// GPU-side state is untouched; call the renderer's Remove to prune the render list.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects and lights from the scene. The render list is kept.
	Clear()

	// Objects returns a snapshot of the objects in insertion order.
	//
	// Returns:
	//   - []game_object.GameObject: the scene's objects
	Objects() []game_object.GameObject

	// AddLight appends a light source to the scene.
	//
	// Parameters:
	//   - l: the Light to add
	AddLight(l light.Light)

	// RemoveLight removes a light source from the scene by reference.
	//
	// Parameters:
	//   - l: the Light to remove
	RemoveLight(l light.Light)

	// Lights returns a snapshot of the lights in insertion order.
	//
	// Returns:
	//   - []light.Light: the scene's light list
	Lights() []light.Light

	// RenderList returns a snapshot of the resident groups in registration order.
	//
	// Returns:
	//   - []*game_object.MaterialFaceGroup: the groups with GPU buffers
	RenderList() []*game_object.MaterialFaceGroup

	// RegisterResident appends a group to the render list.
	//
	// Parameters:
	//   - group: a group whose buffers were just built
	RegisterResident(group *game_object.MaterialFaceGroup)

	// Resident reports whether any of the object's groups are in the render list.
	Resident(obj game_object.GameObject) bool

	// Prune drops every render list entry owned by obj, scanning from the end.
	//
	// Parameters:
	//   - obj: the object whose groups are removed
	Prune(obj game_object.GameObject)

	// Update advances every object by dt seconds on the scene's worker pool and then copies each
	// object's position onto its attached light.
	//
	// Parameters:
	//   - dt: elapsed time since the last frame in seconds
	Update(dt float32)

	// Close stops the scene's worker pool.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name     string
	objects  []game_object.GameObject
	registry map[uint64]game_object.GameObject
	nextID   uint64

	lights       []light.Light
	lightObjects []game_object.GameObject

	renderList []*game_object.MaterialFaceGroup
	resident   map[game_object.GameObject]int

	// updatePool runs per-object Update calls. Workers persist across frames.
	updatePool    worker.DynamicWorkerPool
	updateWorkers int

	initial []game_object.GameObject
}

var _ Scene = &scene{}

// NewScene creates an empty Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.RWMutex{},
		name:          name,
		registry:      make(map[uint64]game_object.GameObject),
		resident:      make(map[game_object.GameObject]int),
		nextID:        1,
		updateWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithUpdateWorkers can override the default.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)

	for _, obj := range s.initial {
		s.Add(obj)
	}
	s.initial = nil
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: Add requires a non-nil GameObject")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	if _, ok := s.registry[obj.ID()]; ok {
		return obj.ID()
	}

	s.registry[obj.ID()] = obj
	s.objects = append(s.objects, obj)
	if l := obj.Light(); l != nil {
		s.lights = append(s.lights, l)
		s.lightObjects = append(s.lightObjects, obj)
	}
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.registry[id]
	if !ok {
		return
	}
	delete(s.registry, id)
	s.objects = slices.DeleteFunc(s.objects, func(o game_object.GameObject) bool { return o == obj })

	if i := slices.Index(s.lightObjects, obj); i >= 0 {
		s.lightObjects = slices.Delete(s.lightObjects, i, i+1)
		if l := obj.Light(); l != nil {
			s.lights = slices.DeleteFunc(s.lights, func(x light.Light) bool { return x == l })
		}
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = nil
	s.lights = nil
	s.lightObjects = nil
	clear(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.objects)
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.lights, l); i >= 0 {
		s.lights = slices.Delete(s.lights, i, i+1)
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) RenderList() []*game_object.MaterialFaceGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.renderList)
}

func (s *scene) RegisterResident(group *game_object.MaterialFaceGroup) {
	if group == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderList = append(s.renderList, group)
	s.resident[group.Object]++
}

func (s *scene) Resident(obj game_object.GameObject) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resident[obj] > 0
}

func (s *scene) Prune(obj game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.renderList) - 1; i >= 0; i-- {
		if s.renderList[i].Object == obj {
			s.renderList = slices.Delete(s.renderList, i, i+1)
		}
	}
	delete(s.resident, obj)
}

func (s *scene) Update(dt float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// A WaitGroup gives a per-frame barrier; pool.Wait blocks until workers go idle.
	var wg sync.WaitGroup
	for i, obj := range s.objects {
		wg.Add(1)
		s.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				obj.Update(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, obj := range s.lightObjects {
		if l := obj.Light(); l != nil && obj.Visible() {
			p := obj.Position()
			l.SetPosition(p[0], p[1], p[2])
		}
	}
}

func (s *scene) Close() {
	s.updatePool.Stop()
}
