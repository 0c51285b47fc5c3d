package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// PoseToMatrix returns the 4x4 homogeneous matrix of the pose, as published by tf-style consumers.
func PoseToMatrix(p Pose) mgl64.Mat4 {
	m := p.Orientation().RotationMatrix().Mat3().Mat4()
	pt := p.Point()
	m.SetCol(3, mgl64.Vec4{pt.X, pt.Y, pt.Z, 1})
	return m
}

// PoseFromMatrix builds a pose from a 4x4 homogeneous matrix. Only the upper 3x4 block is read.
func PoseFromMatrix(m mgl64.Mat4) Pose {
	q := mgl64.Mat4ToQuat(m).Normalize()
	o := quaternion{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]}
	col := m.Col(3)
	return NewPose(r3.Vector{X: col[0], Y: col[1], Z: col[2]}, &o)
}
