package referenceframe

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"go.viam.com/fk/spatialmath"
	"go.viam.com/fk/utils"
)

// Tree is a validated kinematic tree: exactly one root link, every other link attached to its parent by exactly one
// joint, and no cycles. A Tree is immutable after construction and safe to share between goroutines.
type Tree struct {
	name       string
	convention Convention
	root       *Link
	links      map[string]*Link
	joints     map[string]*Joint
	// preorder from the root, children visited in joint declaration order
	order      []*Link
	jointOrder []*Joint
}

// NewTree validates cfg and builds the kinematic tree it describes. Any structural problem is reported as a
// *StructuralError and no tree is returned.
func NewTree(cfg *ModelConfig) (*Tree, error) {
	if cfg == nil || len(cfg.Links) == 0 {
		return nil, newStructuralError(NoLinks, "a kinematic tree needs at least one link")
	}
	convention, err := ParseConvention(cfg.Convention)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		name:       cfg.Name,
		convention: convention,
		links:      make(map[string]*Link, len(cfg.Links)),
		joints:     make(map[string]*Joint, len(cfg.Joints)),
	}
	linkDecl := make([]*Link, 0, len(cfg.Links))
	for _, lc := range cfg.Links {
		if lc.ID == "" {
			return nil, newStructuralError(InvalidName, "links must be named")
		}
		if _, ok := t.links[lc.ID]; ok {
			return nil, newStructuralError(DuplicateName, "link declared more than once", lc.ID)
		}
		l := &Link{name: lc.ID}
		t.links[lc.ID] = l
		linkDecl = append(linkDecl, l)
	}

	for _, jc := range cfg.Joints {
		j, err := t.newJoint(jc)
		if err != nil {
			return nil, err
		}
		if _, ok := t.joints[j.name]; ok {
			return nil, newStructuralError(DuplicateName, "joint declared more than once", j.name)
		}
		child := t.links[j.child]
		if child.parent != nil {
			return nil, newStructuralError(MultipleParents, "link is the child of more than one joint",
				j.child, child.parent.name, j.name)
		}
		child.parent = j
		t.links[j.parent].children = append(t.links[j.parent].children, j)
		t.joints[j.name] = j
		t.jointOrder = append(t.jointOrder, j)
	}

	roots := lo.Filter(linkDecl, func(l *Link, _ int) bool { return l.IsRoot() })
	switch len(roots) {
	case 1:
		t.root = roots[0]
	case 0:
		return nil, newStructuralError(Cycle, "no link is free of a parent joint")
	default:
		return nil, newStructuralError(MultipleRoots, "more than one link has no parent joint",
			lo.Map(roots, func(l *Link, _ int) string { return l.name })...)
	}

	if err := t.checkAcyclic(linkDecl); err != nil {
		return nil, err
	}

	t.order = t.preorder()
	if len(t.order) != len(t.links) {
		// unreachable links always sit on a cycle once each link has at most one parent, which checkAcyclic reports
		return nil, newStructuralError(Cycle, "links are not reachable from the root")
	}
	return t, nil
}

func (t *Tree) newJoint(jc JointConfig) (*Joint, error) {
	if jc.ID == "" {
		return nil, newStructuralError(InvalidName, "joints must be named")
	}
	jt, err := parseJointType(jc.Type)
	if err != nil {
		return nil, newStructuralError(InvalidJoint, err.Error(), jc.ID)
	}
	if _, ok := t.links[jc.Parent]; !ok {
		return nil, newStructuralError(DanglingReference, fmt.Sprintf("parent link %q is not declared", jc.Parent), jc.ID)
	}
	if _, ok := t.links[jc.Child]; !ok {
		return nil, newStructuralError(DanglingReference, fmt.Sprintf("child link %q is not declared", jc.Child), jc.ID)
	}
	if jc.Parent == jc.Child {
		return nil, newStructuralError(Cycle, fmt.Sprintf("link %q is its own parent", jc.Child), jc.ID)
	}

	origin := jc.Origin.Pose()
	if !spatialmath.PoseIsFinite(origin) {
		return nil, newStructuralError(InvalidJoint, "origin is not finite", jc.ID)
	}

	j := &Joint{
		name:       jc.ID,
		jointType:  jt,
		parent:     jc.Parent,
		child:      jc.Child,
		origin:     origin,
		axis:       r3.Vector{X: 1},
		convention: t.convention,
	}
	if !jt.Movable() {
		return j, nil
	}

	if jc.Axis != nil {
		a := *jc.Axis
		if !vectorIsFinite(a) {
			return nil, newStructuralError(InvalidJoint, "axis is not finite", jc.ID)
		}
		if a.Norm() < 1e-12 {
			return nil, newStructuralError(InvalidJoint, "axis must be non-zero", jc.ID)
		}
		j.axis = a.Normalize()
	}
	if jc.Limit != nil && jt != ContinuousJoint {
		lim := Limit{Min: jc.Limit.Lower, Max: jc.Limit.Upper}
		if math.IsNaN(lim.Min) || math.IsNaN(lim.Max) || lim.Min > lim.Max {
			return nil, newStructuralError(InvalidJoint,
				fmt.Sprintf("limit lower %v must not exceed upper %v", lim.Min, lim.Max), jc.ID)
		}
		j.limit = &lim
	}
	return j, nil
}

// checkAcyclic orders the links topologically along their joints; any strongly connected component is a cycle.
func (t *Tree) checkAcyclic(links []*Link) error {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(links))
	names := make(map[int64]string, len(links))
	for i, l := range links {
		ids[l.name] = int64(i)
		names[int64(i)] = l.name
		g.AddNode(simple.Node(i))
	}
	for _, j := range t.jointOrder {
		g.SetEdge(g.NewEdge(simple.Node(ids[j.parent]), simple.Node(ids[j.child])))
	}
	if _, err := topo.Sort(g); err != nil {
		var cycleNames []string
		if unorderable, ok := err.(topo.Unorderable); ok {
			for _, component := range unorderable {
				cycleNames = append(cycleNames, nodeNames(component, names)...)
			}
		}
		sort.Strings(cycleNames)
		return newStructuralError(Cycle, "joints form a loop", cycleNames...)
	}
	return nil
}

func nodeNames(nodes []graph.Node, names map[int64]string) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, names[n.ID()])
	}
	return out
}

func (t *Tree) preorder() []*Link {
	out := make([]*Link, 0, len(t.links))
	stack := []*Link{t.root}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, l)
		for i := len(l.children) - 1; i >= 0; i-- {
			stack = append(stack, t.links[l.children[i].child])
		}
	}
	return out
}

// Name returns the name of the robot description.
func (t *Tree) Name() string {
	return t.name
}

// Convention returns the joint convention every joint in the tree uses.
func (t *Tree) Convention() Convention {
	return t.convention
}

// Root returns the unique root link.
func (t *Tree) Root() *Link {
	return t.root
}

// LinkByName returns the link of the given name.
func (t *Tree) LinkByName(name string) (*Link, error) {
	l, ok := t.links[name]
	if !ok {
		return nil, NewUnknownLinkError(name)
	}
	return l, nil
}

// JointByName returns the joint of the given name.
func (t *Tree) JointByName(name string) (*Joint, error) {
	j, ok := t.joints[name]
	if !ok {
		return nil, NewUnknownJointError(name)
	}
	return j, nil
}

// ChildrenOf returns the joints whose parent is the named link, in declaration order.
func (t *Tree) ChildrenOf(link string) ([]*Joint, error) {
	l, err := t.LinkByName(link)
	if err != nil {
		return nil, err
	}
	return l.ChildJoints(), nil
}

// ParentJoint returns the joint attaching the named link to its parent; it is nil for the root.
func (t *Tree) ParentJoint(link string) (*Joint, error) {
	l, err := t.LinkByName(link)
	if err != nil {
		return nil, err
	}
	return l.parent, nil
}

// Parent returns the parent link of the named link; it is nil for the root.
func (t *Tree) Parent(link string) (*Link, error) {
	j, err := t.ParentJoint(link)
	if err != nil || j == nil {
		return nil, err
	}
	return t.links[j.parent], nil
}

// Links returns every link, root first, each parent before its children.
func (t *Tree) Links() []*Link {
	out := make([]*Link, len(t.order))
	copy(out, t.order)
	return out
}

// NumLinks returns the number of links in the tree.
func (t *Tree) NumLinks() int {
	return len(t.order)
}

// LinkNames returns the names of Links in the same order.
func (t *Tree) LinkNames() []string {
	return lo.Map(t.order, func(l *Link, _ int) string { return l.name })
}

// Joints returns every joint in declaration order.
func (t *Tree) Joints() []*Joint {
	out := make([]*Joint, len(t.jointOrder))
	copy(out, t.jointOrder)
	return out
}

// MovableJoints returns the revolute, continuous and prismatic joints in declaration order.
func (t *Tree) MovableJoints() []*Joint {
	return lo.Filter(t.jointOrder, func(j *Joint, _ int) bool { return j.Movable() })
}

// String prints out a table of each link in the tree, with columns of name, parent, joint, type and origin.
func (t *Tree) String() string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Link", "Parent", "Joint", "Type", "Origin", "Orientation"})
	for i, l := range t.order {
		if l.parent == nil {
			tw.AppendRow(table.Row{fmt.Sprintf("%d", i), l.name, "", "", "", "", ""})
			continue
		}
		j := l.parent
		tra := j.origin.Point()
		ori := j.origin.Orientation().EulerAngles()
		tw.AppendRow(table.Row{
			fmt.Sprintf("%d", i),
			l.name,
			j.parent,
			j.name,
			string(j.jointType),
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				utils.RadToDeg(ori.Roll),
				utils.RadToDeg(ori.Pitch),
				utils.RadToDeg(ori.Yaw),
			),
		})
	}
	return tw.Render()
}

func vectorIsFinite(v r3.Vector) bool {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
