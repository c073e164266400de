// Copyright 2016 Aleksandr Demakin. All rights reserved.

package scene

import (
	"github.com/nxgtw/scenelink/wire"
)

// MeshAdded builds a message announcing a new mesh with its geometry, transform and material.
func MeshAdded(name string, vertices []wire.Vertex, transform wire.Matrix, material wire.Material) *wire.Message {
	return &wire.Message{
		Type:      wire.MeshAdded,
		Mesh:      wire.Mesh{Name: name, VertexCount: uint64(len(vertices))},
		Vertices:  vertices,
		Transform: wire.Transform{Matrix: transform},
		Material:  material,
	}
}

// MeshRemoved builds a message removing a mesh.
func MeshRemoved(name string) *wire.Message {
	return &wire.Message{Type: wire.MeshRemoved, Mesh: wire.Mesh{Name: name}}
}

// MeshRenamed builds a message renaming a mesh.
func MeshRenamed(oldName, newName string) *wire.Message {
	return &wire.Message{Type: wire.MeshRenamed, Mesh: wire.Mesh{Name: newName, OldName: oldName}}
}

// TransformChanged builds a message with a new world transform of a mesh.
func TransformChanged(name string, transform wire.Matrix) *wire.Message {
	return &wire.Message{
		Type:      wire.MeshTransformChanged,
		Mesh:      wire.Mesh{Name: name},
		Transform: wire.Transform{Matrix: transform},
	}
}

// TopologyChanged builds a message replacing the geometry of a mesh.
func TopologyChanged(name string, vertices []wire.Vertex) *wire.Message {
	return &wire.Message{
		Type:     wire.MeshTopologyChanged,
		Mesh:     wire.Mesh{Name: name, VertexCount: uint64(len(vertices))},
		Vertices: vertices,
	}
}

// CameraAdded builds a message announcing a camera.
func CameraAdded(camera wire.Camera) *wire.Message {
	return &wire.Message{Type: wire.CameraAdded, Camera: camera}
}

// ViewChanged builds a message making camera active and updating its view.
func ViewChanged(camera wire.Camera) *wire.Message {
	return &wire.Message{Type: wire.ViewChanged, Camera: camera}
}

// MaterialChanged builds a message assigning material to a mesh.
func MaterialChanged(meshName string, material wire.Material) *wire.Message {
	return &wire.Message{Type: wire.MaterialChanged, Mesh: wire.Mesh{Name: meshName}, Material: material}
}

// LightAdded builds a message announcing a light node.
func LightAdded(name string) *wire.Message {
	return &wire.Message{Type: wire.LightAdded, Mesh: wire.Mesh{Name: name}}
}

// LightRemoved builds a message removing a light node.
func LightRemoved(name string) *wire.Message {
	return &wire.Message{Type: wire.LightRemoved, Mesh: wire.Mesh{Name: name}}
}
