package ros

import (
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/fk/spatialmath"
)

// Time is a ROS time stamp.
type Time struct {
	Secs  uint32 `json:"secs"`
	Nsecs uint32 `json:"nsecs"`
}

// NewTime converts t to a ROS time stamp.
func NewTime(t time.Time) Time {
	ns := t.UnixNano()
	return Time{Secs: uint32(ns / int64(time.Second)), Nsecs: uint32(ns % int64(time.Second))}
}

// Time converts the stamp to a time.Time.
func (t Time) Time() time.Time {
	return time.Unix(int64(t.Secs), int64(t.Nsecs))
}

// Header is a std_msgs/Header.
type Header struct {
	Seq     uint32 `json:"seq"`
	Stamp   Time   `json:"stamp"`
	FrameID string `json:"frame_id"`
}

// JointState is a sensor_msgs/JointState: parallel arrays of joint names and their positions. Velocity and effort
// are carried but unused.
type JointState struct {
	Header   Header    `json:"header"`
	Name     []string  `json:"name"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity,omitempty"`
	Effort   []float64 `json:"effort,omitempty"`
}

// Values pairs each name with its position.
func (js *JointState) Values() (map[string]float64, error) {
	if len(js.Name) != len(js.Position) {
		return nil, errors.Errorf("joint state has %d names but %d positions", len(js.Name), len(js.Position))
	}
	values := make(map[string]float64, len(js.Name))
	for i, name := range js.Name {
		values[name] = js.Position[i]
	}
	return values, nil
}

// JointStateMessage is one recorded joint state with the time it was recorded at.
type JointStateMessage struct {
	Meta Time       `json:"meta"`
	Data JointState `json:"data"`
}

// Vector3 is a geometry_msgs/Vector3.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a geometry_msgs/Quaternion. Note the scalar part comes last.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Transform is a geometry_msgs/Transform.
type Transform struct {
	Translation Vector3    `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
}

// TransformStamped is a geometry_msgs/TransformStamped: the pose of ChildFrameID in Header.FrameID.
type TransformStamped struct {
	Header       Header    `json:"header"`
	ChildFrameID string    `json:"child_frame_id"`
	Transform    Transform `json:"transform"`
}

// TFMessage is a tf2_msgs/TFMessage, the batch broadcast on /tf.
type TFMessage struct {
	Transforms []TransformStamped `json:"transforms"`
}

// NewTransformStamped builds the message placing child at pose in parent.
func NewTransformStamped(parent, child string, stamp time.Time, seq uint32, pose spatialmath.Pose) TransformStamped {
	pt := pose.Point()
	q := pose.Orientation().Quaternion()
	return TransformStamped{
		Header:       Header{Seq: seq, Stamp: NewTime(stamp), FrameID: parent},
		ChildFrameID: child,
		Transform: Transform{
			Translation: Vector3{X: pt.X, Y: pt.Y, Z: pt.Z},
			Rotation:    Quaternion{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real},
		},
	}
}

// Pose converts the transform back to a pose.
func (t Transform) Pose() spatialmath.Pose {
	return spatialmath.NewPose(
		r3.Vector{X: t.Translation.X, Y: t.Translation.Y, Z: t.Translation.Z},
		spatialmath.NewOrientationFromQuat(quat.Number{Real: t.Rotation.W, Imag: t.Rotation.X, Jmag: t.Rotation.Y, Kmag: t.Rotation.Z}),
	)
}
