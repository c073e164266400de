// Copyright 2016 Aleksandr Demakin. All rights reserved.

package wire

// Field and record sizes in bytes.
const (
	NameSize = 64
	PathSize = 256

	TagSize       = 4
	MeshSize      = 2*NameSize + 8
	VertexSize    = 8 * 4
	TransformSize = 16 * 4
	CameraSize    = 4 + NameSize + 16*4 + 5*4
	MaterialSize  = 2*NameSize + 3*4 + PathSize + 4
)

// Matrix is a 4x4 transformation matrix in row-vector convention:
// the translation is kept in elements 12, 13 and 14.
type Matrix [16]float32

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{0: 1, 5: 1, 10: 1, 15: 1}
}

// Mesh identifies a scene node. OldName is set by renames.
// VertexCount is derived from the vertex list, when the message carries one.
type Mesh struct {
	Name        string
	OldName     string
	VertexCount uint64
}

// Vertex is one vertex of a triangle list.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Transform is a world transform of a node.
type Transform struct {
	Matrix Matrix
}

// Camera describes a camera and its view.
type Camera struct {
	Kind   CameraKind
	Name   string
	Matrix Matrix
	// FOV is the vertical field of view in radians.
	FOV    float32
	Aspect float32
	Far    float32
	Near   float32
	// ViewWidth is the width of an orthographic view.
	ViewWidth float32
}

// Material is a surface description of a mesh.
type Material struct {
	Name           string
	OldName        string
	Color          [3]float32
	DiffuseTexture string
	SpecularPower  float32
}

// Message is a decoded scene message. Only the records used by Type are meaningful.
type Message struct {
	Type      MessageType
	Mesh      Mesh
	Vertices  []Vertex
	Transform Transform
	Material  Material
	Camera    Camera
}

// Size returns the encoded size of the message, or 0 for an unknown type.
func (m *Message) Size() int {
	l, ok := layouts[m.Type]
	if !ok {
		return 0
	}
	return l.size(len(m.Vertices))
}
