package core

// Factors is a snapshot of the export multipliers.
type Factors struct {
	// Scale multiplies every exported coordinate component.
	Scale float64
	// Safety multiplies every exported field value.
	Safety float64
}

// DefaultFactors leaves coordinates and values untouched.
var DefaultFactors = Factors{Scale: 1, Safety: 1}

// Registry stores loaded mesh tallies keyed by name, in insertion order, along
// with the process-wide export factors. Implementations must be safe for
// concurrent use.
type Registry interface {
	// Get returns the tally registered under name or an *UnknownMeshError.
	Get(name string) (*MeshTally, error)
	// Has reports whether name is registered.
	Has(name string) bool
	// Put registers m under m.Name, replacing any previous entry but keeping
	// its position.
	Put(m *MeshTally) error
	// Names returns registered names in insertion order.
	Names() []string

	// Factors returns the current factors.
	Factors() Factors
	// SetScaleFactor changes the coordinate multiplier for later exports.
	SetScaleFactor(f float64)
	// SetSafetyFactor changes the value multiplier for later exports.
	SetSafetyFactor(f float64)

	// Lock serializes writers of name; the returned func releases the lock.
	Lock(name string) func()
	// RLock admits concurrent readers of name; the returned func releases it.
	RLock(name string) func()
}
