package core

import (
	"github.com/unixpickle/model3d/model3d"
)

// GeometryKind identifies the grid flavour backing a MeshTally.
type GeometryKind int

const (
	// KindOther is any grid the transformer cannot operate on (e.g. image data).
	KindOther GeometryKind = iota
	// KindStructuredGrid is a curvilinear grid with explicit point coordinates.
	KindStructuredGrid
	// KindUnstructuredGrid is an explicit point + cell connectivity grid.
	KindUnstructuredGrid
	// KindRectilinearGrid is an axis aligned grid described by three coordinate axes.
	KindRectilinearGrid
)

// String returns the conventional VTK class name of the kind.
func (k GeometryKind) String() string {
	switch k {
	case KindStructuredGrid:
		return "StructuredGrid"
	case KindUnstructuredGrid:
		return "UnstructuredGrid"
	case KindRectilinearGrid:
		return "RectilinearGrid"
	default:
		return "Other"
	}
}

// Domain tells whether a field is attached to cells or to points.
type Domain int

const (
	// DomainInvalid marks a field name present in neither domain.
	DomainInvalid Domain = iota
	// DomainCells marks a per-cell field.
	DomainCells
	// DomainPoints marks a per-point field.
	DomainPoints
)

// String returns the lower case domain label used in messages and logs.
func (d Domain) String() string {
	switch d {
	case DomainCells:
		return "cells"
	case DomainPoints:
		return "points"
	default:
		return "invalid"
	}
}

// MeshTally couples a uniquely named geometry with the cached information the
// aggregator, transformer and exporter read. Derived fields are populated by
// NewMeshTally and never change afterwards: transformations build new tallies
// from cloned geometry instead of mutating published ones.
type MeshTally struct {
	// Name is the registry key, normally the path the tally was loaded from.
	Name string
	// Kind is the grid flavour of the geometry.
	Kind GeometryKind
	// CellFields lists the per-cell field names in engine order.
	CellFields []string
	// PointFields lists the per-point field names in engine order.
	PointFields []string
	// CellCenters holds one center per cell.
	CellCenters []model3d.Coord3D
	// PointCoordinates holds one coordinate per mesh point.
	PointCoordinates []model3d.Coord3D
	// Dimensionality is the number of coordinate components per point.
	Dimensionality int

	geometry Geometry
}

// NewMeshTally wraps g under name and computes every derived field. The tally
// takes ownership of g; callers must not mutate it afterwards.
func NewMeshTally(name string, g Geometry) *MeshTally {
	m := &MeshTally{Name: name, geometry: g}
	m.refresh()
	return m
}

func (m *MeshTally) refresh() {
	g := m.geometry
	m.Kind = g.Kind()
	m.CellFields = append([]string(nil), g.CellFieldNames()...)
	m.PointFields = append([]string(nil), g.PointFieldNames()...)
	m.CellCenters = g.CellCenters()
	m.PointCoordinates = g.Points()
	m.Dimensionality = g.Dimensionality()
}

// Geometry returns the geometry handle owned by the tally. It must be treated
// as read-only; use CloneGeometry to obtain a mutable copy.
func (m *MeshTally) Geometry() Geometry { return m.geometry }

// CloneGeometry returns an independent deep copy of the tally's geometry.
func (m *MeshTally) CloneGeometry() Geometry { return m.geometry.Clone() }

// NumCells returns the number of cells of the geometry.
func (m *MeshTally) NumCells() int { return m.geometry.NumCells() }

// NumPoints returns the number of points of the geometry.
func (m *MeshTally) NumPoints() int { return m.geometry.NumPoints() }

// Fields returns cell fields followed by point fields.
func (m *MeshTally) Fields() []string {
	out := make([]string, 0, len(m.CellFields)+len(m.PointFields))
	out = append(out, m.CellFields...)
	return append(out, m.PointFields...)
}

// Classify reports the domain of field. It never fails: names present in
// neither domain classify as DomainInvalid and callers must check for it.
func (m *MeshTally) Classify(field string) Domain {
	for _, name := range m.CellFields {
		if name == field {
			return DomainCells
		}
	}
	for _, name := range m.PointFields {
		if name == field {
			return DomainPoints
		}
	}
	return DomainInvalid
}

// Coordinates returns the coordinate set matching the domain: cell centers
// for cell fields, point coordinates for point fields, nil otherwise.
func (m *MeshTally) Coordinates(d Domain) []model3d.Coord3D {
	switch d {
	case DomainCells:
		return m.CellCenters
	case DomainPoints:
		return m.PointCoordinates
	default:
		return nil
	}
}

// Values returns the values of field after checking its classification.
func (m *MeshTally) Values(field string) ([]float64, Domain, error) {
	d := m.Classify(field)
	if d == DomainInvalid {
		return nil, d, &UnknownFieldError{Mesh: m.Name, Field: field}
	}
	values, ok := m.geometry.FieldValues(field)
	if !ok {
		return nil, d, &UnknownFieldError{Mesh: m.Name, Field: field}
	}
	return values, d, nil
}

// Info summarizes a tally for display.
type Info struct {
	Name           string
	Kind           GeometryKind
	NumCells       int
	NumPoints      int
	CellFields     []string
	PointFields    []string
	Dimensionality int
	Bounds         Bounds
}

// Dimensions returns the extent of the bounds along each axis.
func (i Info) Dimensions() [3]float64 { return i.Bounds.Extent() }

// Info returns a snapshot of the tally's descriptive attributes.
func (m *MeshTally) Info() Info {
	return Info{
		Name:           m.Name,
		Kind:           m.Kind,
		NumCells:       m.NumCells(),
		NumPoints:      m.NumPoints(),
		CellFields:     append([]string(nil), m.CellFields...),
		PointFields:    append([]string(nil), m.PointFields...),
		Dimensionality: m.Dimensionality,
		Bounds:         m.geometry.Bounds(),
	}
}
