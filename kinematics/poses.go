package kinematics

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"go.viam.com/fk/referenceframe"
	"go.viam.com/fk/spatialmath"
	"go.viam.com/fk/utils"
)

// LinkPoses maps each link name to its pose in the root link frame.
type LinkPoses map[string]spatialmath.Pose

// Pose returns the pose of the named link.
func (lp LinkPoses) Pose(link string) (spatialmath.Pose, error) {
	p, ok := lp[link]
	if !ok {
		return nil, referenceframe.NewUnknownLinkError(link)
	}
	return p, nil
}

// Names returns the link names, sorted.
func (lp LinkPoses) Names() []string {
	names := lo.Keys(lp)
	sort.Strings(names)
	return names
}

// RelativePose returns the pose of link to expressed in the frame of link from.
func RelativePose(poses LinkPoses, from, to string) (spatialmath.Pose, error) {
	fromPose, err := poses.Pose(from)
	if err != nil {
		return nil, err
	}
	toPose, err := poses.Pose(to)
	if err != nil {
		return nil, err
	}
	return spatialmath.PoseBetween(fromPose, toPose), nil
}

// String prints out a table of each link pose, with columns of name, translation and orientation.
func (lp LinkPoses) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Link", "Translation", "Orientation"})
	for _, name := range lp.Names() {
		tra := lp[name].Point()
		ori := lp[name].Orientation().EulerAngles()
		t.AppendRow(table.Row{
			name,
			fmt.Sprintf("X:%.4f, Y:%.4f, Z:%.4f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				utils.RadToDeg(ori.Roll),
				utils.RadToDeg(ori.Pitch),
				utils.RadToDeg(ori.Yaw),
			),
		})
	}
	return t.Render()
}
