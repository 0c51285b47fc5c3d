package jointstate

import (
	"go.uber.org/multierr"

	"go.viam.com/fk/referenceframe"
)

// CheckLimits reports every joint in values that lies outside its declared limits, combined into one error.
// Pose computation never clamps or rejects such values; callers that care validate with this first.
func CheckLimits(tree *referenceframe.Tree, values Snapshot) error {
	var errs error
	for _, j := range tree.MovableJoints() {
		v, ok := values.Value(j.Name())
		if !ok {
			continue
		}
		errs = multierr.Append(errs, j.CheckLimits(v))
	}
	return errs
}
