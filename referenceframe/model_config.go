package referenceframe

import (
	"github.com/golang/geo/r3"

	"go.viam.com/fk/spatialmath"
)

// ModelConfig is the parsed form of a robot description: the links and joints of a kinematic tree before any
// validation has been done. It is produced by the JSON, map and URDF loaders and consumed by NewTree.
type ModelConfig struct {
	Name       string        `json:"name"`
	Convention string        `json:"convention,omitempty"`
	Links      []LinkConfig  `json:"links"`
	Joints     []JointConfig `json:"joints"`
}

// LinkConfig describes a rigid link. Links carry no state of their own; their poses are derived from the joints.
type LinkConfig struct {
	ID string `json:"id"`
}

// JointConfig describes the joint connecting a parent link to a child link.
type JointConfig struct {
	ID     string        `json:"id"`
	Type   string        `json:"type"`
	Parent string        `json:"parent"`
	Child  string        `json:"child"`
	Origin *OriginConfig `json:"origin,omitempty"`
	// Axis defaults to +X when omitted, as in URDF. Ignored for fixed joints.
	Axis  *r3.Vector   `json:"axis,omitempty"`
	Limit *LimitConfig `json:"limit,omitempty"`
}

// OriginConfig is the static offset of a joint: the child frame relative to the parent frame at value zero.
type OriginConfig struct {
	XYZ r3.Vector               `json:"xyz"`
	RPY spatialmath.EulerAngles `json:"rpy"`
}

// LimitConfig bounds a joint value. Revolute limits are in radians, prismatic limits in the description's length unit.
type LimitConfig struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Pose returns the origin as a rigid transform; a nil origin is the identity.
func (oc *OriginConfig) Pose() spatialmath.Pose {
	if oc == nil {
		return spatialmath.NewZeroPose()
	}
	return spatialmath.NewPoseFromRPY(oc.RPY.Roll, oc.RPY.Pitch, oc.RPY.Yaw, oc.XYZ.X, oc.XYZ.Y, oc.XYZ.Z)
}
