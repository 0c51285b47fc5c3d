package referenceframe

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/fk/spatialmath"
)

// JointType is the kind of motion a joint permits.
type JointType string

// Supported joint types.
const (
	FixedJoint      = JointType("fixed")
	RevoluteJoint   = JointType("revolute")
	ContinuousJoint = JointType("continuous")
	PrismaticJoint  = JointType("prismatic")
)

// Movable returns true for joint types that take a value.
func (jt JointType) Movable() bool {
	return jt == RevoluteJoint || jt == ContinuousJoint || jt == PrismaticJoint
}

func parseJointType(s string) (JointType, error) {
	switch jt := JointType(s); jt {
	case FixedJoint, RevoluteJoint, ContinuousJoint, PrismaticJoint:
		return jt, nil
	default:
		return "", NewUnsupportedJointTypeError(s)
	}
}

// Convention decides where a joint's motion is applied relative to its static origin.
type Convention string

const (
	// ProximalConvention places the joint at the parent link frame: T = M(value) * T_origin. The axis is
	// expressed in the parent link frame and the origin offset is carried around by the motion.
	ProximalConvention = Convention("proximal")
	// URDFConvention places the joint at the end of its origin offset: T = T_origin * M(value). The axis is
	// expressed in the joint frame, as URDF and ROS tf define it.
	URDFConvention = Convention("urdf")
)

// ParseConvention maps a description's convention string to a Convention; empty means ProximalConvention.
func ParseConvention(s string) (Convention, error) {
	switch c := Convention(s); c {
	case "":
		return ProximalConvention, nil
	case ProximalConvention, URDFConvention:
		return c, nil
	default:
		return "", newStructuralError(InvalidJoint, "unknown joint convention "+s)
	}
}

// Limit represents the limits of motion for a joint.
type Limit struct {
	Min float64
	Max float64
}

// Joint connects exactly one parent link to exactly one child link. Joints are immutable once the tree is built.
type Joint struct {
	name       string
	jointType  JointType
	parent     string
	child      string
	origin     spatialmath.Pose
	axis       r3.Vector
	limit      *Limit
	convention Convention
}

// Name returns the name of the joint.
func (j *Joint) Name() string {
	return j.name
}

// Type returns the joint type.
func (j *Joint) Type() JointType {
	return j.jointType
}

// Movable returns true if the joint takes a value.
func (j *Joint) Movable() bool {
	return j.jointType.Movable()
}

// Parent returns the name of the parent link.
func (j *Joint) Parent() string {
	return j.parent
}

// Child returns the name of the child link.
func (j *Joint) Child() string {
	return j.child
}

// Origin returns the static transform from the parent link frame to the child link frame at value zero.
func (j *Joint) Origin() spatialmath.Pose {
	return j.origin
}

// Axis returns the unit axis of rotation or translation.
func (j *Joint) Axis() r3.Vector {
	return j.axis
}

// Limit returns the declared limits of the joint, if any. Continuous joints are reported as unbounded.
func (j *Joint) Limit() (Limit, bool) {
	if j.jointType == ContinuousJoint {
		return Limit{Min: math.Inf(-1), Max: math.Inf(1)}, false
	}
	if j.limit == nil {
		return Limit{}, false
	}
	return *j.limit, true
}

// Motion returns the value-dependent part of the joint transform: a rotation of value radians about the axis for
// revolute and continuous joints, a translation of value along the axis for prismatic joints and the identity for
// fixed joints.
func (j *Joint) Motion(value float64) spatialmath.Pose {
	switch j.jointType {
	case RevoluteJoint, ContinuousJoint:
		return spatialmath.NewPoseFromOrientation(&spatialmath.R4AA{Theta: value, RX: j.axis.X, RY: j.axis.Y, RZ: j.axis.Z})
	case PrismaticJoint:
		return spatialmath.NewPoseFromPoint(j.axis.Mul(value))
	default:
		return spatialmath.NewZeroPose()
	}
}

// Transform returns the pose of the child link in the parent link frame when the joint is at value. Fixed joints
// ignore the value.
func (j *Joint) Transform(value float64) spatialmath.Pose {
	if !j.Movable() {
		return j.origin
	}
	if j.convention == URDFConvention {
		return spatialmath.Compose(j.origin, j.Motion(value))
	}
	return spatialmath.Compose(j.Motion(value), j.origin)
}

// CheckLimits returns an error if value lies outside the joint's declared limits. Joints without limits accept any
// value. The engine never calls this; it computes out-of-limit values as given.
func (j *Joint) CheckLimits(value float64) error {
	limit, ok := j.Limit()
	if !ok {
		return nil
	}
	if value < limit.Min || value > limit.Max {
		return NewOutOfLimitsError(j.name, value, limit)
	}
	return nil
}
