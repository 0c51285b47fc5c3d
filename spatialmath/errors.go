package spatialmath

import "github.com/pkg/errors"

// ErrZeroAxis is returned when a rotation or translation axis has no length.
var ErrZeroAxis = errors.New("cannot use zero vector as axis")

func newRotationMatrixInputError(m []float64) error {
	return errors.Errorf("input slice has %d elements, need exactly 9", len(m))
}
