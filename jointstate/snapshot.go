package jointstate

import (
	"sort"

	"github.com/samber/lo"
)

// Snapshot is an immutable copy of joint values taken at one instant. A traversal reading a Snapshot never sees a
// concurrent update, in whole or in part.
type Snapshot struct {
	version uint64
	values  map[string]float64
}

// NewSnapshot builds a snapshot from values, which may name only some of a tree's joints. The map is copied.
func NewSnapshot(values map[string]float64) Snapshot {
	return Snapshot{values: lo.Assign(values)}
}

// Value returns the value recorded for the named joint and whether one was recorded.
func (s Snapshot) Value(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Version is the store version the snapshot was taken at; it increases with every applied update. Snapshots built
// with NewSnapshot have version 0.
func (s Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of joints with a recorded value.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Names returns the joints with a recorded value, sorted.
func (s Snapshot) Names() []string {
	names := lo.Keys(s.values)
	sort.Strings(names)
	return names
}

// Values returns a copy of the recorded values.
func (s Snapshot) Values() map[string]float64 {
	return lo.Assign(s.values)
}
