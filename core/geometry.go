package core

import "github.com/unixpickle/model3d/model3d"

// Bounds is the axis aligned box enclosing every point of a geometry, laid out
// as xmin, xmax, ymin, ymax, zmin, zmax.
type Bounds [6]float64

// Extent returns max-min along x, y and z.
func (b Bounds) Extent() [3]float64 {
	return [3]float64{b[1] - b[0], b[3] - b[2], b[5] - b[4]}
}

// Geometry is an opaque grid handle. A Geometry value is owned by exactly one
// MeshTally; the mutating methods (Translate, Rotate*) must only be called on
// a fresh Clone that has not been published yet.
//
// Contract:
//   - Clone returns a fully independent deep copy (no aliasing of slices)
//   - CellVolume is signed; callers take the absolute value
//   - Translate and Rotate* may refuse kinds they cannot move (e.g. rectilinear
//     grids) and must then leave the geometry untouched
//   - Rotations are about the origin, in degrees, right-handed
type Geometry interface {
	Kind() GeometryKind
	Clone() Geometry
	NumCells() int
	NumPoints() int
	Dimensionality() int
	CellCenters() []model3d.Coord3D
	Points() []model3d.Coord3D
	CellFieldNames() []string
	PointFieldNames() []string
	FieldValues(name string) ([]float64, bool)
	CellVolume(i int) float64
	Translate(d model3d.Coord3D) error
	RotateX(degrees float64) error
	RotateY(degrees float64) error
	RotateZ(degrees float64) error
	Bounds() Bounds
}

// Engine groups the geometry operations that create new handles or touch the
// file system.
type Engine interface {
	// Load reads the grid stored at path.
	Load(path string) (Geometry, error)
	// CastToStructuredGrid converts g (rectilinear or structured) into a new
	// structured grid carrying the same fields.
	CastToStructuredGrid(g Geometry) (Geometry, error)
	// Merge appends b to a. The result is always an unstructured grid.
	Merge(a, b Geometry) (Geometry, error)
	// Save writes g to path, in binary or ASCII encoding.
	Save(g Geometry, path string, binary bool) error
}
