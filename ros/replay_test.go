package ros

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/fk/jointstate"
	"go.viam.com/fk/logging"
	"go.viam.com/fk/referenceframe"
	"go.viam.com/fk/utils"
)

func replayStore(t *testing.T) *jointstate.Store {
	t.Helper()
	tree, err := referenceframe.NewTree(&referenceframe.ModelConfig{
		Links: []referenceframe.LinkConfig{{ID: "base"}, {ID: "a"}, {ID: "b"}, {ID: "camera"}},
		Joints: []referenceframe.JointConfig{
			{ID: "joint_a", Type: "revolute", Parent: "base", Child: "a", Axis: &r3.Vector{Z: 1}},
			{ID: "joint_b", Type: "revolute", Parent: "a", Child: "b", Axis: &r3.Vector{Z: 1}},
			{ID: "camera_mount", Type: "fixed", Parent: "base", Child: "camera"},
		},
	})
	test.That(t, err, test.ShouldBeNil)
	return jointstate.NewStore(tree)
}

func TestReplayImmediate(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	msgs, err := ReadJointStatesFile(utils.ResolveFile("ros/testdata/joint_states.jsonl"), DefaultJointStatesTopic)
	test.That(t, err, test.ShouldBeNil)
	store := replayStore(t)

	applied, err := Replay(context.Background(), msgs, store, clock.NewMock(), 0, logger)
	test.That(t, err, test.ShouldBeNil)
	// the gripper joint is dropped from its message, the message moving the fixed camera mount is skipped whole
	test.That(t, applied, test.ShouldEqual, 4)
	test.That(t, logs.FilterMessage("ignoring joints not in the tree").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("skipping joint state").Len(), test.ShouldEqual, 1)
	test.That(t, store.Snapshot().Values(), test.ShouldResemble, map[string]float64{"joint_a": 0.5, "joint_b": -0.6})
}

func TestReplayIgnoresUndeclaredJoints(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	store := replayStore(t)
	msgs := []JointStateMessage{{
		Meta: Time{Secs: 1},
		Data: JointState{
			Name:     []string{"joint_a", "joint_b", "gripper_finger"},
			Position: []float64{0.5, 0.25, 0.01},
		},
	}}

	applied, err := Replay(context.Background(), msgs, store, clock.NewMock(), 0, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, applied, test.ShouldEqual, 1)
	test.That(t, store.Snapshot().Values(), test.ShouldResemble, map[string]float64{"joint_a": 0.5, "joint_b": 0.25})

	ignored := logs.FilterMessage("ignoring joints not in the tree").All()
	test.That(t, ignored, test.ShouldHaveLength, 1)
	test.That(t, ignored[0].ContextMap()["joints"], test.ShouldResemble, []interface{}{"gripper_finger"})
	test.That(t, logs.FilterMessage("skipping joint state").Len(), test.ShouldEqual, 0)
}

func TestReplayTiming(t *testing.T) {
	logger := logging.NewTestLogger(t)
	msgs, err := ReadJointStatesFile(utils.ResolveFile("ros/testdata/joint_states.jsonl"), DefaultJointStatesTopic)
	test.That(t, err, test.ShouldBeNil)
	store := replayStore(t)
	mock := clock.NewMock()

	type result struct {
		applied int
		err     error
	}
	done := make(chan result, 1)
	go func() {
		applied, err := Replay(context.Background(), msgs, store, mock, 2, logger)
		done <- result{applied, err}
	}()

	// the first message is applied right away
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		v, err := store.Get("joint_a")
		test.That(tb, err, test.ShouldBeNil)
		test.That(tb, v, test.ShouldEqual, 0.1)
	})

	// at double speed the last message is due 1.25s after the first
	var res result
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(50 * time.Millisecond)
		select {
		case res = <-done:
		default:
		}
		test.That(tb, res.applied, test.ShouldEqual, 4)
	})
	test.That(t, res.err, test.ShouldBeNil)
	test.That(t, mock.Now().Sub(time.Unix(0, 0)), test.ShouldBeGreaterThanOrEqualTo, 1250*time.Millisecond)
}

func TestReplayCancel(t *testing.T) {
	logger := logging.NewTestLogger(t)
	msgs, err := ReadJointStatesFile(utils.ResolveFile("ros/testdata/joint_states.jsonl"), DefaultJointStatesTopic)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	applied, err := Replay(ctx, msgs, replayStore(t), clock.NewMock(), 1, logger)
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, applied, test.ShouldEqual, 0)
}
