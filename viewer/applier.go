// Copyright 2016 Aleksandr Demakin. All rights reserved.

package viewer

import (
	"github.com/nxgtw/scenelink/wire"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnsupportedType is returned for messages, which do not change a scene.
var ErrUnsupportedType = errors.New("unsupported message type")

// Applier applies decoded messages to a scene.
// Messages about unknown nodes are ignored, as an edit may refer to a node
// created before the viewer was started.
type Applier struct {
	scene *Scene
	log   *zap.Logger
}

// NewApplier returns an applier for scene. log may be nil.
func NewApplier(scene *Scene, log *zap.Logger) *Applier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Applier{scene: scene, log: log}
}

// Apply changes the scene according to msg.
func (a *Applier) Apply(msg *wire.Message) error {
	s := a.scene
	found := true
	switch msg.Type {
	case wire.MeshAdded:
		s.addNode(Node{
			Name:      msg.Mesh.Name,
			Vertices:  msg.Vertices,
			Transform: Decompose(msg.Transform.Matrix),
			Material:  msg.Material,
		})
	case wire.MeshRemoved:
		found = s.removeNode(msg.Mesh.Name)
	case wire.MeshRenamed:
		found = s.renameNode(msg.Mesh.OldName, msg.Mesh.Name)
	case wire.MeshTransformChanged:
		transform := Decompose(msg.Transform.Matrix)
		found = s.updateNode(msg.Mesh.Name, func(node *Node) {
			node.Transform = transform
		})
	case wire.MeshTopologyChanged:
		found = s.updateNode(msg.Mesh.Name, func(node *Node) {
			node.Vertices = msg.Vertices
		})
	case wire.MaterialChanged:
		found = s.updateNode(msg.Mesh.Name, func(node *Node) {
			node.Material = msg.Material
		})
	case wire.CameraAdded:
		s.setCamera(cameraFromMessage(msg.Camera))
	case wire.ViewChanged:
		camera, ok := s.Camera(msg.Camera.Name)
		if found = ok; ok {
			if msg.Camera.Kind == wire.Orthographic {
				camera.Kind = wire.Orthographic
				camera.ViewWidth = msg.Camera.ViewWidth
				camera.Near = msg.Camera.Near
				camera.Far = msg.Camera.Far
			}
			// the view matrix carries no scale.
			t := Decompose(msg.Camera.Matrix)
			camera.Transform.Translation = t.Translation
			camera.Transform.Rotation = t.Rotation
			s.setCamera(camera)
			s.activate(camera.Name)
		}
	case wire.LightAdded:
		s.addLight(msg.Mesh.Name)
	case wire.LightRemoved:
		found = s.removeLight(msg.Mesh.Name)
	default:
		return errors.Wrapf(ErrUnsupportedType, "%s", msg.Type)
	}
	if !found {
		a.log.Debug("message for an unknown object", zap.Stringer("type", msg.Type),
			zap.String("mesh", msg.Mesh.Name), zap.String("camera", msg.Camera.Name))
	}
	return nil
}

func cameraFromMessage(c wire.Camera) Camera {
	t := Decompose(c.Matrix)
	t.Scale = [3]float32{1, 1, 1}
	return Camera{
		Name:      c.Name,
		Kind:      c.Kind,
		FOV:       c.FOV,
		Near:      c.Near,
		Far:       c.Far,
		ViewWidth: c.ViewWidth,
		Transform: t,
	}
}
