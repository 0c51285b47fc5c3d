package jointstate

import (
	"github.com/pkg/errors"
)

var (
	// ErrImmutableJoint is matched by errors from setting a fixed joint to a non-zero value.
	ErrImmutableJoint = errors.New("joint is immutable")
	// ErrInvalidValue is matched by errors from setting a joint to NaN or an infinity.
	ErrInvalidValue = errors.New("invalid joint value")
)

// NewImmutableJointError returns an error indicating that a fixed joint cannot take value.
func NewImmutableJointError(name string, value float64) error {
	return errors.Wrapf(ErrImmutableJoint, "fixed joint %q cannot be set to %v", name, value)
}

// NewInvalidValueError returns an error indicating that value is not a finite number.
func NewInvalidValueError(name string, value float64) error {
	return errors.Wrapf(ErrInvalidValue, "joint %q cannot be set to %v", name, value)
}
