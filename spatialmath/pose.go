package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a rigid transform: a 6dof translation and orientation of one frame relative to another.
// Applied to a point p expressed in the child frame it yields Orientation()·p + Point() in the parent frame.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns the identity pose, with no translation and no rotation.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a point and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	q := newDualQuaternion()
	q.Real = o.Quaternion()
	q.SetTranslation(p)
	return q
}

// NewPoseFromPoint returns a pose with the given translation and no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.SetTranslation(point)
	return q
}

// NewPoseFromOrientation returns a pose with no translation and the given orientation.
func NewPoseFromOrientation(o Orientation) Pose {
	q := newDualQuaternion()
	q.Real = o.Quaternion()
	return q
}

// NewPoseFromRPY builds the rigid transform R(roll, pitch, yaw) followed by the translation (tx, ty, tz).
// Angles are radians about the fixed X, Y and Z axes, so R = Rz(yaw)·Ry(pitch)·Rx(roll), the same convention
// as the rpy attribute of a URDF origin.
func NewPoseFromRPY(roll, pitch, yaw, tx, ty, tz float64) Pose {
	return NewPose(r3.Vector{X: tx, Y: ty, Z: tz}, &EulerAngles{Roll: roll, Pitch: pitch, Yaw: yaw})
}

// NewPoseFromAxisAngle returns a pure rotation of angle radians about axis. The axis is normalized; a zero axis
// is rejected with ErrZeroAxis.
func NewPoseFromAxisAngle(axis r3.Vector, angle float64) (Pose, error) {
	if axis.Norm() < axisEpsilon {
		return nil, ErrZeroAxis
	}
	n := axis.Normalize()
	return NewPoseFromOrientation(&R4AA{Theta: angle, RX: n.X, RY: n.Y, RZ: n.Z}), nil
}

// Compose returns the pose a*b, i.e. b applied in the frame of a. Composition is associative but not commutative.
func Compose(a, b Pose) Pose {
	aq := dualQuaternionFromPose(a)
	bq := dualQuaternionFromPose(b)
	result := &dualQuaternion{dualquat.Mul(aq.Number, bq.Number)}

	// Multiplication of unit dual quaternions drifts away from unit length over many products, which shows up as a
	// rotation that is no longer orthonormal. Rescale the real part to keep it a unit quaternion.
	if vecLen := quat.Abs(result.Real); vecLen != 1 && vecLen != 0 {
		result.Real = quat.Scale(1/vecLen, result.Real)
		result.Dual = quat.Scale(1/vecLen, result.Dual)
	}
	return result
}

// PoseInverse returns the pose that undoes p, so Compose(p, PoseInverse(p)) is the identity.
func PoseInverse(p Pose) Pose {
	return dualQuaternionFromPose(p).Invert()
}

// PoseBetween returns the pose which, composed onto a, yields b: Compose(a, PoseBetween(a, b)) == b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint expresses point, given in the frame described by p, in p's parent frame.
func TransformPoint(p Pose, point r3.Vector) r3.Vector {
	return Compose(p, NewPoseFromPoint(point)).Point()
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, defaultPrecision)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same, with translation and
// quaternion components compared to within epsilon.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) &&
		QuaternionAlmostEqual(a.Orientation().Quaternion(), b.Orientation().Quaternion(), epsilon)
}

// PoseIsFinite reports whether every component of the pose is a finite number.
func PoseIsFinite(p Pose) bool {
	pt := p.Point()
	q := p.Orientation().Quaternion()
	for _, v := range []float64{pt.X, pt.Y, pt.Z, q.Real, q.Imag, q.Jmag, q.Kmag} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
