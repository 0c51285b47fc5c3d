package referenceframe

// Link is a rigid body in the kinematic tree. It stores only its relations; its pose is always derived.
type Link struct {
	name     string
	parent   *Joint
	children []*Joint
}

// Name returns the name of the link.
func (l *Link) Name() string {
	return l.name
}

// ParentJoint returns the joint attaching this link to its parent, or nil for the root link.
func (l *Link) ParentJoint() *Joint {
	return l.parent
}

// IsRoot returns true if the link has no parent joint.
func (l *Link) IsRoot() bool {
	return l.parent == nil
}

// ChildJoints returns the joints hanging off this link in declaration order.
func (l *Link) ChildJoints() []*Joint {
	out := make([]*Joint, len(l.children))
	copy(out, l.children)
	return out
}
