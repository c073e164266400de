// Copyright 2016 Aleksandr Demakin. All rights reserved.

package viewer

import (
	"sync"

	"github.com/nxgtw/scenelink/wire"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Node is a mesh in the scene.
type Node struct {
	Name      string
	Vertices  []wire.Vertex
	Transform Transform
	Material  wire.Material
}

// Camera is a camera node in the scene.
type Camera struct {
	Name      string
	Kind      wire.CameraKind
	FOV       float32
	Near      float32
	Far       float32
	ViewWidth float32
	Transform Transform
}

// Scene is an in-memory scene graph. It has a single writer, the Applier,
// and may be read concurrently, for example by http handlers.
// Nodes are stored by value, readers get copies.
type Scene struct {
	nodes   cmap.ConcurrentMap[string, Node]
	cameras cmap.ConcurrentMap[string, Camera]
	lights  cmap.ConcurrentMap[string, struct{}]

	mu     sync.RWMutex
	active string
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		nodes:   cmap.New[Node](),
		cameras: cmap.New[Camera](),
		lights:  cmap.New[struct{}](),
	}
}

// Node returns a mesh by name.
func (s *Scene) Node(name string) (Node, bool) {
	return s.nodes.Get(name)
}

// NodeNames returns the names of all meshes.
func (s *Scene) NodeNames() []string {
	return s.nodes.Keys()
}

// Camera returns a camera by name.
func (s *Scene) Camera(name string) (Camera, bool) {
	return s.cameras.Get(name)
}

// ActiveCamera returns the camera of the last view change.
func (s *Scene) ActiveCamera() (Camera, bool) {
	s.mu.RLock()
	name := s.active
	s.mu.RUnlock()
	if name == "" {
		return Camera{}, false
	}
	return s.cameras.Get(name)
}

// HasLight returns true, if a light with the given name exists.
func (s *Scene) HasLight(name string) bool {
	return s.lights.Has(name)
}

// Counts is a summary of the scene contents.
type Counts struct {
	Nodes   int
	Cameras int
	Lights  int
}

// Counts returns the number of objects of each kind.
func (s *Scene) Counts() Counts {
	return Counts{
		Nodes:   s.nodes.Count(),
		Cameras: s.cameras.Count(),
		Lights:  s.lights.Count(),
	}
}

func (s *Scene) addNode(node Node) {
	s.nodes.Set(node.Name, node)
}

// updateNode applies fn to an existing node. It returns false, if there is no such node.
func (s *Scene) updateNode(name string, fn func(node *Node)) bool {
	node, ok := s.nodes.Get(name)
	if !ok {
		return false
	}
	fn(&node)
	s.nodes.Set(name, node)
	return true
}

func (s *Scene) removeNode(name string) bool {
	_, ok := s.nodes.Pop(name)
	return ok
}

func (s *Scene) renameNode(oldName, newName string) bool {
	node, ok := s.nodes.Pop(oldName)
	if !ok {
		return false
	}
	node.Name = newName
	s.nodes.Set(newName, node)
	return true
}

func (s *Scene) setCamera(camera Camera) {
	s.cameras.Set(camera.Name, camera)
}

func (s *Scene) activate(name string) {
	s.mu.Lock()
	s.active = name
	s.mu.Unlock()
}

func (s *Scene) addLight(name string) {
	s.lights.Set(name, struct{}{})
}

func (s *Scene) removeLight(name string) bool {
	_, ok := s.lights.Pop(name)
	return ok
}
