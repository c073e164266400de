// Copyright 2016 Aleksandr Demakin. All rights reserved.

package scene

import (
	"math"

	"github.com/nxgtw/scenelink/wire"
)

// cubeFaces lists the normal and two tangent axes of every cube face.
var cubeFaces = [6][3][3]float32{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
}

// Cube returns a triangle list of an axis aligned cube centered at the origin.
func Cube(size float32) []wire.Vertex {
	half := size / 2
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	order := [6]int{0, 1, 2, 0, 2, 3}
	vertices := make([]wire.Vertex, 0, 36)
	for _, face := range cubeFaces {
		normal, u, v := face[0], face[1], face[2]
		for _, idx := range order {
			c := corners[idx]
			var vertex wire.Vertex
			for axis := 0; axis < 3; axis++ {
				vertex.Position[axis] = half * (normal[axis] + c[0]*u[axis] + c[1]*v[axis])
			}
			vertex.Normal = normal
			vertex.UV = [2]float32{(c[0] + 1) / 2, (c[1] + 1) / 2}
			vertices = append(vertices, vertex)
		}
	}
	return vertices
}

// RotationY returns a matrix, which rotates around the Y axis by angle radians
// and then translates by t.
func RotationY(angle float64, t [3]float32) wire.Matrix {
	sin, cos := math.Sincos(angle)
	m := wire.Identity()
	m[0] = float32(cos)
	m[2] = float32(-sin)
	m[8] = float32(sin)
	m[10] = float32(cos)
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}
