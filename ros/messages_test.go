package ros

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/fk/spatialmath"
)

func TestTime(t *testing.T) {
	stamp := time.Unix(1700000000, 250000000)
	rt := NewTime(stamp)
	test.That(t, rt, test.ShouldResemble, Time{Secs: 1700000000, Nsecs: 250000000})
	test.That(t, rt.Time().Equal(stamp), test.ShouldBeTrue)
}

func TestTransformStamped(t *testing.T) {
	pose := spatialmath.NewPoseFromRPY(0, 0, math.Pi/2, 1, 2, 3)
	msg := NewTransformStamped("world_link", "tool", time.Unix(10, 0), 7, pose)

	test.That(t, msg.Header.FrameID, test.ShouldEqual, "world_link")
	test.That(t, msg.Header.Seq, test.ShouldEqual, 7)
	test.That(t, msg.ChildFrameID, test.ShouldEqual, "tool")
	test.That(t, msg.Transform.Translation, test.ShouldResemble, Vector3{X: 1, Y: 2, Z: 3})
	test.That(t, msg.Transform.Rotation.W, test.ShouldAlmostEqual, math.Sqrt2/2)
	test.That(t, msg.Transform.Rotation.Z, test.ShouldAlmostEqual, math.Sqrt2/2)
	test.That(t, spatialmath.PoseAlmostEqual(msg.Transform.Pose(), pose), test.ShouldBeTrue)

	data, err := json.Marshal(TFMessage{Transforms: []TransformStamped{msg}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"child_frame_id":"tool"`)
	test.That(t, string(data), test.ShouldContainSubstring, `"frame_id":"world_link"`)
	test.That(t, string(data), test.ShouldContainSubstring, `"stamp":{"secs":10,"nsecs":0}`)
}

func TestJointStateValues(t *testing.T) {
	js := JointState{Name: []string{"a", "b"}, Position: []float64{1, 2}}
	values, err := js.Values()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, values, test.ShouldResemble, map[string]float64{"a": 1, "b": 2})

	js.Position = js.Position[:1]
	_, err = js.Values()
	test.That(t, err, test.ShouldNotBeNil)
}
