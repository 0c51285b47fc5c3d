package referenceframe

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other Transform errors.
const OOBErrString = "input out of bounds"

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// ErrNotFound is matched by every lookup miss, see NewUnknownJointError and NewUnknownLinkError.
var ErrNotFound = errors.New("not found")

// StructuralErrorKind classifies why a description does not form a kinematic tree.
type StructuralErrorKind int

const (
	// MultipleRoots means more than one link has no parent joint.
	MultipleRoots StructuralErrorKind = iota
	// Cycle means following parent joints from some link never reaches a root.
	Cycle
	// DanglingReference means a joint names a parent or child link that is not declared.
	DanglingReference
	// DuplicateName means two links, or two joints, share a name.
	DuplicateName
	// MultipleParents means a link is the child of more than one joint.
	MultipleParents
	// NoLinks means the description declares no links at all.
	NoLinks
	// InvalidJoint means a joint is malformed: unknown type, zero axis, non-finite numbers or inverted limits.
	InvalidJoint
	// InvalidName means a link or joint has an empty name.
	InvalidName
)

func (k StructuralErrorKind) String() string {
	switch k {
	case MultipleRoots:
		return "multiple roots"
	case Cycle:
		return "cycle"
	case DanglingReference:
		return "dangling reference"
	case DuplicateName:
		return "duplicate name"
	case MultipleParents:
		return "multiple parents"
	case NoLinks:
		return "no links"
	case InvalidJoint:
		return "invalid joint"
	case InvalidName:
		return "invalid name"
	default:
		return fmt.Sprintf("unknown structural error (%d)", int(k))
	}
}

// StructuralError is returned by NewTree when a description cannot be turned into a kinematic tree.
// No tree is produced alongside it.
type StructuralError struct {
	Kind   StructuralErrorKind
	Names  []string
	Detail string
}

func (e *StructuralError) Error() string {
	msg := "invalid kinematic tree: " + e.Kind.String()
	if len(e.Names) > 0 {
		msg += " [" + strings.Join(e.Names, ", ") + "]"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func newStructuralError(kind StructuralErrorKind, detail string, names ...string) error {
	return &StructuralError{Kind: kind, Names: names, Detail: detail}
}

// IsStructuralError returns true if err is, or wraps, a StructuralError of the given kind.
func IsStructuralError(err error, kind StructuralErrorKind) bool {
	var serr *StructuralError
	return errors.As(err, &serr) && serr.Kind == kind
}

// NotFoundError is a lookup miss for a link or joint name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is lets errors.Is(err, ErrNotFound) match any lookup miss.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewUnknownJointError returns an error indicating that no joint of the given name exists.
func NewUnknownJointError(name string) error {
	return &NotFoundError{Kind: "joint", Name: name}
}

// NewUnknownLinkError returns an error indicating that no link of the given name exists.
func NewUnknownLinkError(name string) error {
	return &NotFoundError{Kind: "link", Name: name}
}

// IsUnknownJoint returns true if err is a lookup miss on a joint name.
func IsUnknownJoint(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == "joint"
}

// IsUnknownLink returns true if err is a lookup miss on a link name.
func IsUnknownLink(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == "link"
}

// NewUnsupportedJointTypeError returns an error indicating that a given joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

// NewOutOfLimitsError returns an error indicating that a joint value lies outside the joint's declared limits.
func NewOutOfLimitsError(joint string, value float64, limit Limit) error {
	return errors.Errorf("joint %q value %.5f %s [%.5f, %.5f]", joint, value, OOBErrString, limit.Min, limit.Max)
}
