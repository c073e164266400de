// Copyright 2016 Aleksandr Demakin. All rights reserved.

package viewer

import (
	"math"

	"github.com/nxgtw/scenelink/wire"
)

// Transform is a decomposed node transform.
type Transform struct {
	Translation [3]float32
	// Rotation is a unit quaternion (x, y, z, w).
	Rotation [4]float32
	Scale    [3]float32
}

// IdentityTransform returns a transform, which changes nothing.
func IdentityTransform() Transform {
	return Transform{Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}}
}

// Decompose splits an affine matrix into translation, rotation and scale.
// A matrix with a zero scale axis yields the identity rotation.
func Decompose(m wire.Matrix) Transform {
	t := Transform{Translation: [3]float32{m[12], m[13], m[14]}}
	axes := [3][3]float64{
		{float64(m[0]), float64(m[1]), float64(m[2])},
		{float64(m[4]), float64(m[5]), float64(m[6])},
		{float64(m[8]), float64(m[9]), float64(m[10])},
	}
	var scale [3]float64
	for i, axis := range axes {
		scale[i] = math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	}
	if det := determinant3(axes); det < 0 {
		scale[2] = -scale[2]
	}
	for i := range scale {
		t.Scale[i] = float32(scale[i])
	}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		t.Rotation = [4]float32{0, 0, 0, 1}
		return t
	}
	for i := range axes {
		for j := range axes[i] {
			axes[i][j] /= scale[i]
		}
	}
	t.Rotation = quaternionFromRows(axes)
	return t
}

func determinant3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// quaternionFromRows converts an orthonormal basis, given as rows of
// a row-vector rotation matrix, into a quaternion.
func quaternionFromRows(r [3][3]float64) [4]float32 {
	var x, y, z, w float64
	trace := r[0][0] + r[1][1] + r[2][2]
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		w = 0.25 / s
		x = (r[1][2] - r[2][1]) * s
		y = (r[2][0] - r[0][2]) * s
		z = (r[0][1] - r[1][0]) * s
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := 2 * math.Sqrt(1+r[0][0]-r[1][1]-r[2][2])
		w = (r[1][2] - r[2][1]) / s
		x = 0.25 * s
		y = (r[1][0] + r[0][1]) / s
		z = (r[2][0] + r[0][2]) / s
	case r[1][1] > r[2][2]:
		s := 2 * math.Sqrt(1+r[1][1]-r[0][0]-r[2][2])
		w = (r[2][0] - r[0][2]) / s
		x = (r[1][0] + r[0][1]) / s
		y = 0.25 * s
		z = (r[2][1] + r[1][2]) / s
	default:
		s := 2 * math.Sqrt(1+r[2][2]-r[0][0]-r[1][1])
		w = (r[0][1] - r[1][0]) / s
		x = (r[2][0] + r[0][2]) / s
		y = (r[2][1] + r[1][2]) / s
		z = 0.25 * s
	}
	return [4]float32{float32(x), float32(y), float32(z), float32(w)}
}
