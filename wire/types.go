// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package wire defines the binary format of scene messages, which are carried
// as channel payloads. All values are little-endian and records are packed.
package wire

import "strconv"

// MessageType is the tag, which starts every message.
type MessageType uint32

// Message types.
const (
	None MessageType = iota
	MeshAdded
	MeshRemoved
	MeshRenamed
	MeshTransformChanged
	MeshTopologyChanged
	CameraAdded
	ViewChanged
	MaterialChanged
	LightAdded
	LightRemoved
)

var typeNames = [...]string{
	None:                 "NONE",
	MeshAdded:            "MESH_ADDED",
	MeshRemoved:          "MESH_REMOVED",
	MeshRenamed:          "MESH_RENAMED",
	MeshTransformChanged: "MESH_TRANSFORM_CHANGED",
	MeshTopologyChanged:  "MESH_TOPOLOGY_CHANGED",
	CameraAdded:          "CAMERA_ADDED",
	ViewChanged:          "VIEW_CHANGED",
	MaterialChanged:      "MATERIAL_CHANGED",
	LightAdded:           "LIGHT_ADDED",
	LightRemoved:         "LIGHT_REMOVED",
}

func (t MessageType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "MessageType(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// CameraKind is a projection type of a camera.
type CameraKind uint32

// Camera kinds.
const (
	Perspective CameraKind = iota
	Orthographic
)

func (k CameraKind) String() string {
	switch k {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return "CameraKind(" + strconv.FormatUint(uint64(k), 10) + ")"
	}
}

// layout lists the records, which follow the type tag, in wire order.
type layout struct {
	mesh      bool
	vertices  bool
	transform bool
	material  bool
	camera    bool
}

var layouts = map[MessageType]layout{
	MeshAdded:            {mesh: true, vertices: true, transform: true, material: true},
	MeshRemoved:          {mesh: true},
	MeshRenamed:          {mesh: true},
	MeshTransformChanged: {mesh: true, transform: true},
	MeshTopologyChanged:  {mesh: true, vertices: true},
	CameraAdded:          {camera: true},
	ViewChanged:          {camera: true},
	MaterialChanged:      {mesh: true, material: true},
	LightAdded:           {mesh: true},
	LightRemoved:         {mesh: true},
}

func (l layout) size(vertexCount int) int {
	size := TagSize
	if l.mesh {
		size += MeshSize
	}
	if l.vertices {
		size += vertexCount * VertexSize
	}
	if l.transform {
		size += TransformSize
	}
	if l.material {
		size += MaterialSize
	}
	if l.camera {
		size += CameraSize
	}
	return size
}
