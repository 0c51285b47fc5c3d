package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"go.viam.com/fk/referenceframe"
	"go.viam.com/fk/utils"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck // no need to check for error
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck // no need to check for error
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	printf(w, format, a...)
}

// Errorf prints a message prefixed with a bold red "Error: " and exits with 1.
func Errorf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck // no need to check for error
	color.New(color.Bold, color.FgRed).Fprint(w, "Error: ")
	printf(w, format, a...)
	os.Exit(1)
}

// parseJointValues parses name=value pairs. With degrees set, values of rotating joints are converted to radians;
// prismatic values are always meters.
func parseJointValues(tree *referenceframe.Tree, pairs []string, degrees bool) (map[string]float64, error) {
	values := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("joint value %q must be of the form name=value", pair)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "joint value for %q", name)
		}
		j, err := tree.JointByName(name)
		if err != nil {
			return nil, err
		}
		if degrees && j.Type() != referenceframe.PrismaticJoint {
			value = utils.DegToRad(value)
		}
		values[name] = value
	}
	return values, nil
}
