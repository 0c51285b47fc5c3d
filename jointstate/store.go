// Package jointstate holds the current value of every movable joint and the sources that update them.
package jointstate

import (
	"math"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/fk/referenceframe"
)

// Store is the mutable joint state shared between update sources and the pose computation. Writers are serialized
// and readers take copies, so a pose computation runs against a consistent set of values without holding the lock.
type Store struct {
	tree *referenceframe.Tree

	mu      sync.RWMutex
	values  map[string]float64
	version uint64
}

// NewStore returns an empty store for the joints of tree. Every joint reads as 0 until it is set.
func NewStore(tree *referenceframe.Tree) *Store {
	return &Store{
		tree:   tree,
		values: map[string]float64{},
	}
}

// Tree returns the kinematic tree the store holds values for.
func (s *Store) Tree() *referenceframe.Tree {
	return s.tree
}

// validate checks that value can be assigned to name. It returns apply=false for the accepted no-op of setting a
// fixed joint to zero.
func (s *Store) validate(name string, value float64) (apply bool, err error) {
	j, err := s.tree.JointByName(name)
	if err != nil {
		return false, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false, NewInvalidValueError(name, value)
	}
	if !j.Movable() {
		if value != 0 {
			return false, NewImmutableJointError(name, value)
		}
		return false, nil
	}
	return true, nil
}

// Set records value for the named joint. It fails, leaving the store unchanged, if the joint is unknown, if value is
// not finite, or if the joint is fixed and value is not zero.
func (s *Store) Set(name string, value float64) error {
	apply, err := s.validate(name, value)
	if err != nil || !apply {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
	s.version++
	return nil
}

// SetMany records a batch of values as one update: either every value is applied or, if any is rejected, none is.
// The returned error combines every rejection.
func (s *Store) SetMany(values map[string]float64) error {
	names := lo.Keys(values)
	sort.Strings(names)

	var errs error
	toApply := make(map[string]float64, len(values))
	for _, name := range names {
		apply, err := s.validate(name, values[name])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if apply {
			toApply[name] = values[name]
		}
	}
	if errs != nil {
		return errs
	}
	if len(toApply) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, value := range toApply {
		s.values[name] = value
	}
	s.version++
	return nil
}

// FilterDeclared splits values into those naming a joint of the store's tree and the sorted names of those that do
// not. Sources carrying state for a larger robot use it to pick out the joints they drive.
func (s *Store) FilterDeclared(values map[string]float64) (map[string]float64, []string) {
	declared := make(map[string]float64, len(values))
	var ignored []string
	for name, value := range values {
		if _, err := s.tree.JointByName(name); err != nil {
			ignored = append(ignored, name)
			continue
		}
		declared[name] = value
	}
	sort.Strings(ignored)
	return declared, ignored
}

// Get returns the value of the named joint, 0 if it has never been set.
func (s *Store) Get(name string) (float64, error) {
	if _, err := s.tree.JointByName(name); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name], nil
}

// Snapshot copies the current values under the read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{version: s.version, values: lo.Assign(s.values)}
}

// Version returns the number of updates applied so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
