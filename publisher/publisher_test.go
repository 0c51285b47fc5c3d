package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/fk/jointstate"
	"go.viam.com/fk/kinematics"
	"go.viam.com/fk/logging"
	"go.viam.com/fk/referenceframe"
	"go.viam.com/fk/ros"
	"go.viam.com/fk/utils"
)

func setup(t *testing.T, policy kinematics.MissingValuePolicy) (*kinematics.Engine, *jointstate.Store) {
	t.Helper()
	tree, err := referenceframe.NewTreeFromFile(utils.ResolveFile("referenceframe/testdata/planar.json"), "")
	test.That(t, err, test.ShouldBeNil)
	return kinematics.NewEngine(tree, policy, logging.NewTestLogger(t)), jointstate.NewStore(tree)
}

type recorder struct {
	mu   sync.Mutex
	msgs []ros.TFMessage
	fail bool
}

func (r *recorder) Broadcast(ctx context.Context, msg ros.TFMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("transport down")
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) setFail(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = fail
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func (r *recorder) last() ros.TFMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msgs[len(r.msgs)-1]
}

func TestNewPublisher(t *testing.T) {
	logger := logging.NewTestLogger(t)
	engine, store := setup(t, kinematics.DefaultToNeutral)

	_, err := NewPublisher(engine, store, &recorder{}, Options{}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	other, _ := setup(t, kinematics.DefaultToNeutral)
	_, err = NewPublisher(other, store, &recorder{}, Options{Rate: 10}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	p, err := NewPublisher(engine, store, &recorder{}, Options{Rate: 20}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Interval(), test.ShouldEqual, 50*time.Millisecond)

	p, err = NewPublisher(engine, store, &recorder{}, Options{Rate: 20}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Tick(context.Background()), test.ShouldBeNil)
}

func TestTick(t *testing.T) {
	logger := logging.NewTestLogger(t)
	engine, store := setup(t, kinematics.DefaultToNeutral)
	rec := &recorder{}
	mock := clock.NewMock()
	mock.Set(time.Unix(1000, 0))

	p, err := NewPublisher(engine, store, rec, Options{Rate: 10, Clock: mock}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, store.Set("joint_a", math.Pi/2), test.ShouldBeNil)
	test.That(t, p.Tick(context.Background()), test.ShouldBeNil)

	msg := rec.last()
	test.That(t, len(msg.Transforms), test.ShouldEqual, 5)
	children := []string{}
	for _, tf := range msg.Transforms {
		test.That(t, tf.Header.FrameID, test.ShouldEqual, DefaultParentFrame)
		test.That(t, tf.Header.Seq, test.ShouldEqual, 1)
		test.That(t, tf.Header.Stamp, test.ShouldResemble, ros.Time{Secs: 1000})
		children = append(children, tf.ChildFrameID)
	}
	test.That(t, children, test.ShouldResemble, []string{"base", "link_a", "link_b", "tool", "camera"})

	linkA := msg.Transforms[1].Transform
	test.That(t, linkA.Translation.X, test.ShouldAlmostEqual, 0)
	test.That(t, linkA.Translation.Y, test.ShouldAlmostEqual, 1)
	test.That(t, linkA.Rotation.Z, test.ShouldAlmostEqual, math.Sqrt2/2)
	test.That(t, linkA.Rotation.W, test.ShouldAlmostEqual, math.Sqrt2/2)

	test.That(t, p.Stats(), test.ShouldResemble, Stats{Ticks: 1, LastVersion: 1})
}

func TestTickFailuresAreSkipped(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	engine, store := setup(t, kinematics.RequireAllValues)
	rec := &recorder{}
	mock := clock.NewMock()

	p, err := NewPublisher(engine, store, rec, Options{Rate: 10, Clock: mock, ParentFrame: "map"}, logger)
	test.That(t, err, test.ShouldBeNil)
	p.Start()
	defer p.Stop()

	// no values yet, so every tick fails under RequireAllValues
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(100 * time.Millisecond)
		test.That(tb, p.Stats().Failures, test.ShouldBeGreaterThanOrEqualTo, 2)
	})
	test.That(t, rec.count(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("skipping tick").Len(), test.ShouldBeGreaterThanOrEqualTo, 2)

	test.That(t, store.SetMany(map[string]float64{"joint_a": 0.1, "joint_b": 0.2, "slide": 0.1}), test.ShouldBeNil)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(100 * time.Millisecond)
		test.That(tb, rec.count(), test.ShouldBeGreaterThan, 0)
	})
	test.That(t, rec.last().Transforms[0].Header.FrameID, test.ShouldEqual, "map")

	// a broadcaster outage is skipped too, and publishing resumes after it
	rec.setFail(true)
	failures := p.Stats().Failures
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(100 * time.Millisecond)
		test.That(tb, p.Stats().Failures, test.ShouldBeGreaterThan, failures)
	})
	rec.setFail(false)
	published := rec.count()
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(100 * time.Millisecond)
		test.That(tb, rec.count(), test.ShouldBeGreaterThan, published)
	})
	test.That(t, p.Stats().LastVersion, test.ShouldEqual, 1)
}

func TestJSONLinesBroadcaster(t *testing.T) {
	engine, store := setup(t, kinematics.DefaultToNeutral)
	var buf bytes.Buffer
	p, err := NewPublisher(engine, store, NewJSONLinesBroadcaster(&buf), Options{Rate: 1, Clock: clock.NewMock()},
		logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Tick(context.Background()), test.ShouldBeNil)
	test.That(t, p.Tick(context.Background()), test.ShouldBeNil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	test.That(t, len(lines), test.ShouldEqual, 2)
	var msg ros.TFMessage
	test.That(t, json.Unmarshal([]byte(lines[1]), &msg), test.ShouldBeNil)
	test.That(t, len(msg.Transforms), test.ShouldEqual, 5)
	test.That(t, msg.Transforms[1].Header.Seq, test.ShouldEqual, 2)
	test.That(t, msg.Transforms[1].Transform.Translation, test.ShouldResemble, ros.Vector3{X: 1})
}

func TestLogAndFuncBroadcasters(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	engine, store := setup(t, kinematics.DefaultToNeutral)

	p, err := NewPublisher(engine, store, NewLogBroadcaster(logger), Options{Rate: 1, Clock: clock.NewMock()}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Tick(context.Background()), test.ShouldBeNil)
	test.That(t, logs.FilterMessage("transform").Len(), test.ShouldEqual, 5)
	test.That(t, logs.FilterMessage("published transforms").Len(), test.ShouldEqual, 1)

	var got int
	fb := FuncBroadcaster(func(ctx context.Context, msg ros.TFMessage) error {
		got = len(msg.Transforms)
		return nil
	})
	p, err = NewPublisher(engine, store, fb, Options{Rate: 1, Clock: clock.NewMock()}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Tick(context.Background()), test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, 5)
}
