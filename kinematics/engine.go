// Package kinematics computes the pose of every link of a kinematic tree from a set of joint values.
package kinematics

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/fk/logging"
	"go.viam.com/fk/referenceframe"
	"go.viam.com/fk/spatialmath"
)

// ErrUnknownJointValue is matched by errors from a RequireAllValues computation missing a movable joint's value.
var ErrUnknownJointValue = errors.New("no value for joint")

// NewUnknownJointValueError returns an error indicating that no value was supplied for the named joint.
func NewUnknownJointValueError(name string) error {
	return errors.Wrapf(ErrUnknownJointValue, "joint %q", name)
}

// ErrInvalidJointValue is matched by errors from a computation given a NaN or infinite joint value.
var ErrInvalidJointValue = errors.New("joint value is not finite")

// NewInvalidJointValueError returns an error indicating that the value supplied for the named joint is not finite.
func NewInvalidJointValueError(name string, value float64) error {
	return errors.Wrapf(ErrInvalidJointValue, "joint %q value %v", name, value)
}

// JointValues supplies the value of movable joints by name. jointstate.Snapshot implements it.
type JointValues interface {
	Value(name string) (float64, bool)
}

// MissingValuePolicy decides what a computation does with a movable joint that has no value.
type MissingValuePolicy int

const (
	// DefaultToNeutral evaluates a joint without a value at 0.
	DefaultToNeutral MissingValuePolicy = iota
	// RequireAllValues fails the computation with ErrUnknownJointValue.
	RequireAllValues
)

func (p MissingValuePolicy) String() string {
	switch p {
	case DefaultToNeutral:
		return "neutral"
	case RequireAllValues:
		return "require"
	default:
		return "unknown"
	}
}

// ParseMissingValuePolicy parses "neutral" or "require"; the empty string is DefaultToNeutral.
func ParseMissingValuePolicy(s string) (MissingValuePolicy, error) {
	switch strings.ToLower(s) {
	case "", "neutral":
		return DefaultToNeutral, nil
	case "require":
		return RequireAllValues, nil
	default:
		return DefaultToNeutral, errors.Errorf("unknown missing value policy %q, expected neutral or require", s)
	}
}

type options struct {
	policy MissingValuePolicy
	logger logging.Logger
}

// Option configures a pose computation.
type Option func(*options)

// WithMissingValuePolicy sets how joints without a value are treated. The default is DefaultToNeutral.
func WithMissingValuePolicy(policy MissingValuePolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithLogger sets the logger joints defaulted to neutral are reported on, at debug level.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

type frame struct {
	link *referenceframe.Link
	pose spatialmath.Pose
}

// ComputePoses returns the pose of every link of tree in the root link frame. The root is at the identity and
// each child link is its parent's pose composed with the transform of the joint between them at its value. Every
// link is visited exactly once and after its parent. Values outside joint limits are used as given; a NaN or
// infinite value fails the computation with ErrInvalidJointValue.
func ComputePoses(tree *referenceframe.Tree, values JointValues, opts ...Option) (LinkPoses, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	poses := make(LinkPoses, tree.NumLinks())
	var missing []string
	stack := []frame{{link: tree.Root(), pose: spatialmath.NewZeroPose()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		poses[f.link.Name()] = f.pose

		children := f.link.ChildJoints()
		for i := len(children) - 1; i >= 0; i-- {
			j := children[i]
			var value float64
			if j.Movable() {
				v, ok := lookup(values, j.Name())
				if !ok {
					if o.policy == RequireAllValues {
						return nil, NewUnknownJointValueError(j.Name())
					}
					missing = append(missing, j.Name())
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, NewInvalidJointValueError(j.Name(), v)
				}
				value = v
			}
			child, err := tree.LinkByName(j.Child())
			if err != nil {
				return nil, err
			}
			stack = append(stack, frame{link: child, pose: spatialmath.Compose(f.pose, j.Transform(value))})
		}
	}

	if len(missing) > 0 && o.logger != nil {
		o.logger.Debugw("no value for joints, using 0", "joints", missing)
	}
	return poses, nil
}

func lookup(values JointValues, name string) (float64, bool) {
	if values == nil {
		return 0, false
	}
	return values.Value(name)
}

// Engine computes poses for one tree with a fixed missing value policy.
type Engine struct {
	tree   *referenceframe.Tree
	policy MissingValuePolicy
	logger logging.Logger
}

// NewEngine returns an engine for tree using policy. A nil logger means the global logger.
func NewEngine(tree *referenceframe.Tree, policy MissingValuePolicy, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Global().Sublogger("kinematics")
	}
	return &Engine{tree: tree, policy: policy, logger: logger}
}

// Tree returns the engine's kinematic tree.
func (e *Engine) Tree() *referenceframe.Tree {
	return e.tree
}

// Policy returns the engine's missing value policy.
func (e *Engine) Policy() MissingValuePolicy {
	return e.policy
}

// Compute returns the pose of every link for values.
func (e *Engine) Compute(values JointValues) (LinkPoses, error) {
	return ComputePoses(e.tree, values, WithMissingValuePolicy(e.policy), WithLogger(e.logger))
}
