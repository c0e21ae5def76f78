package registry

import (
	"fmt"
	"sync"

	"github.com/hupe1980/vtkconverter/core"
)

// InMemoryStore is a volatile Registry implementation storing tallies in a
// process local map. It is safe for concurrent access. Tallies are immutable
// once stored, so Get hands out the stored pointer without cloning.
//
// Besides the map lock, the store owns one RWMutex per key (see Lock/RLock)
// so callers can keep a transform from replacing a key while an export reads it.
type InMemoryStore struct {
	mu      sync.RWMutex
	meshes  map[string]*core.MeshTally
	order   []string
	factors core.Factors

	keys keyedMutex
}

// NewInMemoryStore constructs an empty store with default factors.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		meshes:  make(map[string]*core.MeshTally),
		factors: core.DefaultFactors,
		keys:    keyedMutex{locks: make(map[string]*sync.RWMutex)},
	}
}

// Get returns the tally registered under name.
func (s *InMemoryStore) Get(name string) (*core.MeshTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meshes[name]
	if !ok {
		return nil, &core.UnknownMeshError{Name: name}
	}
	return m, nil
}

// Has reports whether name is registered.
func (s *InMemoryStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.meshes[name]
	return ok
}

// Put registers m under m.Name. A replaced entry keeps its original position.
func (s *InMemoryStore) Put(m *core.MeshTally) error {
	if m == nil || m.Name == "" {
		return fmt.Errorf("registry: mesh tally must have a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.meshes[m.Name]; !exists {
		s.order = append(s.order, m.Name)
	}
	s.meshes[m.Name] = m
	return nil
}

// Names returns a snapshot of the registered names in insertion order.
func (s *InMemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Factors returns the current scale and safety factors.
func (s *InMemoryStore) Factors() core.Factors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factors
}

// SetScaleFactor sets the coordinate multiplier used by later exports.
func (s *InMemoryStore) SetScaleFactor(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factors.Scale = f
}

// SetSafetyFactor sets the value multiplier used by later exports.
func (s *InMemoryStore) SetSafetyFactor(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factors.Safety = f
}

// Lock takes the exclusive lock of name.
func (s *InMemoryStore) Lock(name string) func() {
	l := s.keys.get(name)
	l.Lock()
	return l.Unlock
}

// RLock takes a shared lock of name.
func (s *InMemoryStore) RLock(name string) func() {
	l := s.keys.get(name)
	l.RLock()
	return l.RUnlock
}

// keyedMutex lazily allocates one RWMutex per key. Locks are never freed;
// the number of keys is bounded by the number of tallies ever registered.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func (k *keyedMutex) get(name string) *sync.RWMutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		k.locks[name] = l
	}
	return l
}
