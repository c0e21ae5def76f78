package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model3d"

	"github.com/hupe1980/vtkconverter/core"
)

// ErrNotTransformable is returned by Translate and Rotate* on grids whose
// coordinates are implicit (rectilinear grids and image data). Such grids must
// be cast to a structured grid first.
var ErrNotTransformable = errors.New("grid: translate/rotate needs explicit point coordinates")

// CellType uses the VTK cell type numbering.
type CellType uint8

const (
	// CellTetra is VTK_TETRA.
	CellTetra CellType = 10
	// CellVoxel is VTK_VOXEL (axis aligned, lattice point order).
	CellVoxel CellType = 11
	// CellHexahedron is VTK_HEXAHEDRON.
	CellHexahedron CellType = 12
)

func (t CellType) size() int {
	switch t {
	case CellTetra:
		return 4
	case CellVoxel, CellHexahedron:
		return 8
	default:
		return 0
	}
}

// Cell is one cell of an unstructured grid.
type Cell struct {
	Type   CellType
	Points []int
}

// Field is a named scalar array.
type Field struct {
	Name   string
	Values []float64
}

// Grid is the concrete core.Geometry of this package.
type Grid struct {
	kind core.GeometryKind

	// lattice kinds (structured, rectilinear, image data)
	dims [3]int
	// rectilinear
	axes [3][]float64
	// image data
	origin  model3d.Coord3D
	spacing model3d.Coord3D

	// structured and unstructured
	points []model3d.Coord3D
	// unstructured
	cells []Cell

	cellData  []Field
	pointData []Field
}

var _ core.Geometry = (*Grid)(nil)

// NewStructured builds a structured grid. Points are ordered with x varying
// fastest, then y, then z.
func NewStructured(dims [3]int, points []model3d.Coord3D) (*Grid, error) {
	if err := checkDims(dims); err != nil {
		return nil, err
	}
	if n := dims[0] * dims[1] * dims[2]; len(points) != n {
		return nil, fmt.Errorf("grid: structured grid %v needs %d points, got %d", dims, n, len(points))
	}
	return &Grid{kind: core.KindStructuredGrid, dims: dims, points: append([]model3d.Coord3D(nil), points...)}, nil
}

// NewRectilinear builds a rectilinear grid from its three coordinate axes.
func NewRectilinear(x, y, z []float64) (*Grid, error) {
	dims := [3]int{len(x), len(y), len(z)}
	if err := checkDims(dims); err != nil {
		return nil, err
	}
	g := &Grid{kind: core.KindRectilinearGrid, dims: dims}
	for i, axis := range [][]float64{x, y, z} {
		g.axes[i] = append([]float64(nil), axis...)
	}
	return g, nil
}

// NewImageData builds a uniform grid. Its kind is core.KindOther, which the
// transformer refuses to operate on.
func NewImageData(dims [3]int, origin, spacing model3d.Coord3D) (*Grid, error) {
	if err := checkDims(dims); err != nil {
		return nil, err
	}
	return &Grid{kind: core.KindOther, dims: dims, origin: origin, spacing: spacing}, nil
}

// NewUnstructured builds an unstructured grid from explicit points and cells.
func NewUnstructured(points []model3d.Coord3D, cells []Cell) (*Grid, error) {
	g := &Grid{kind: core.KindUnstructuredGrid, points: append([]model3d.Coord3D(nil), points...)}
	g.cells = make([]Cell, len(cells))
	for i, c := range cells {
		if c.Type.size() == 0 {
			return nil, fmt.Errorf("grid: cell %d has unsupported type %d", i, c.Type)
		}
		if len(c.Points) != c.Type.size() {
			return nil, fmt.Errorf("grid: cell %d of type %d needs %d points, got %d", i, c.Type, c.Type.size(), len(c.Points))
		}
		for _, id := range c.Points {
			if id < 0 || id >= len(points) {
				return nil, fmt.Errorf("grid: cell %d references point %d out of range", i, id)
			}
		}
		g.cells[i] = Cell{Type: c.Type, Points: append([]int(nil), c.Points...)}
	}
	return g, nil
}

func checkDims(dims [3]int) error {
	for _, d := range dims {
		if d < 2 {
			return fmt.Errorf("grid: dimensions %v must be at least 2 along every axis", dims)
		}
	}
	return nil
}

// AddCellField attaches a per-cell array, replacing one with the same name.
func (g *Grid) AddCellField(name string, values []float64) error {
	if len(values) != g.NumCells() {
		return fmt.Errorf("grid: cell array %q has %d values for %d cells", name, len(values), g.NumCells())
	}
	g.cellData = setField(g.cellData, name, values)
	return nil
}

// AddPointField attaches a per-point array, replacing one with the same name.
func (g *Grid) AddPointField(name string, values []float64) error {
	if len(values) != g.NumPoints() {
		return fmt.Errorf("grid: point array %q has %d values for %d points", name, len(values), g.NumPoints())
	}
	g.pointData = setField(g.pointData, name, values)
	return nil
}

func setField(fields []Field, name string, values []float64) []Field {
	f := Field{Name: name, Values: append([]float64(nil), values...)}
	for i := range fields {
		if fields[i].Name == name {
			fields[i] = f
			return fields
		}
	}
	return append(fields, f)
}

// Kind returns the grid flavour.
func (g *Grid) Kind() core.GeometryKind { return g.kind }

// Dims returns the lattice dimensions (zero for unstructured grids).
func (g *Grid) Dims() [3]int { return g.dims }

// Clone returns a deep copy sharing no slices with g.
func (g *Grid) Clone() core.Geometry { return g.clone() }

func (g *Grid) clone() *Grid {
	c := *g
	for i := range g.axes {
		c.axes[i] = append([]float64(nil), g.axes[i]...)
	}
	c.points = append([]model3d.Coord3D(nil), g.points...)
	c.cells = make([]Cell, len(g.cells))
	for i, cell := range g.cells {
		c.cells[i] = Cell{Type: cell.Type, Points: append([]int(nil), cell.Points...)}
	}
	c.cellData = cloneFields(g.cellData)
	c.pointData = cloneFields(g.pointData)
	return &c
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Name: f.Name, Values: append([]float64(nil), f.Values...)}
	}
	return out
}

func (g *Grid) lattice() bool { return g.kind != core.KindUnstructuredGrid }

// NumCells returns the number of cells.
func (g *Grid) NumCells() int {
	if !g.lattice() {
		return len(g.cells)
	}
	return (g.dims[0] - 1) * (g.dims[1] - 1) * (g.dims[2] - 1)
}

// NumPoints returns the number of points.
func (g *Grid) NumPoints() int {
	if g.kind == core.KindRectilinearGrid || g.kind == core.KindOther {
		return g.dims[0] * g.dims[1] * g.dims[2]
	}
	return len(g.points)
}

// Dimensionality is always 3.
func (g *Grid) Dimensionality() int { return 3 }

// Points returns one coordinate per point. Implicit coordinates are expanded.
func (g *Grid) Points() []model3d.Coord3D {
	switch g.kind {
	case core.KindRectilinearGrid, core.KindOther:
		out := make([]model3d.Coord3D, 0, g.NumPoints())
		for k := 0; k < g.dims[2]; k++ {
			for j := 0; j < g.dims[1]; j++ {
				for i := 0; i < g.dims[0]; i++ {
					out = append(out, g.latticePoint(i, j, k))
				}
			}
		}
		return out
	default:
		return append([]model3d.Coord3D(nil), g.points...)
	}
}

func (g *Grid) latticePoint(i, j, k int) model3d.Coord3D {
	switch g.kind {
	case core.KindRectilinearGrid:
		return model3d.XYZ(g.axes[0][i], g.axes[1][j], g.axes[2][k])
	case core.KindOther:
		return g.origin.Add(model3d.XYZ(float64(i)*g.spacing.X, float64(j)*g.spacing.Y, float64(k)*g.spacing.Z))
	default:
		return g.points[i+g.dims[0]*(j+g.dims[1]*k)]
	}
}

func (g *Grid) point(id int) model3d.Coord3D {
	if g.kind == core.KindRectilinearGrid || g.kind == core.KindOther {
		nx, ny := g.dims[0], g.dims[1]
		return g.latticePoint(id%nx, (id/nx)%ny, id/(nx*ny))
	}
	return g.points[id]
}

// cell returns the connectivity of cell i. Lattice cells are hexahedra in VTK
// order: the bottom quad counter-clockwise, then the top quad.
func (g *Grid) cell(i int) Cell {
	if !g.lattice() {
		return g.cells[i]
	}
	nx, ny := g.dims[0], g.dims[1]
	ci := i % (nx - 1)
	cj := (i / (nx - 1)) % (ny - 1)
	ck := i / ((nx - 1) * (ny - 1))
	id := func(a, b, c int) int { return a + nx*(b+ny*c) }
	return Cell{Type: CellHexahedron, Points: []int{
		id(ci, cj, ck), id(ci+1, cj, ck), id(ci+1, cj+1, ck), id(ci, cj+1, ck),
		id(ci, cj, ck+1), id(ci+1, cj, ck+1), id(ci+1, cj+1, ck+1), id(ci, cj+1, ck+1),
	}}
}

// CellCenters returns the mean of each cell's points.
func (g *Grid) CellCenters() []model3d.Coord3D {
	out := make([]model3d.Coord3D, g.NumCells())
	for i := range out {
		c := g.cell(i)
		var sum model3d.Coord3D
		for _, id := range c.Points {
			sum = sum.Add(g.point(id))
		}
		out[i] = sum.Scale(1 / float64(len(c.Points)))
	}
	return out
}

// CellVolume returns the signed volume of cell i.
func (g *Grid) CellVolume(i int) float64 {
	c := g.cell(i)
	p := make([]model3d.Coord3D, len(c.Points))
	for j, id := range c.Points {
		p[j] = g.point(id)
	}
	switch c.Type {
	case CellTetra:
		return tetraVolume(p[0], p[1], p[2], p[3])
	case CellVoxel:
		return hexVolume([8]model3d.Coord3D{p[0], p[1], p[3], p[2], p[4], p[5], p[7], p[6]})
	default:
		return hexVolume([8]model3d.Coord3D(p))
	}
}

func tetraVolume(a, b, c, d model3d.Coord3D) float64 {
	return b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a))) / 6
}

// hexVolume splits the hexahedron into six tetrahedra sharing the 0-6 diagonal.
func hexVolume(p [8]model3d.Coord3D) float64 {
	return tetraVolume(p[0], p[1], p[2], p[6]) +
		tetraVolume(p[0], p[2], p[3], p[6]) +
		tetraVolume(p[0], p[3], p[7], p[6]) +
		tetraVolume(p[0], p[7], p[4], p[6]) +
		tetraVolume(p[0], p[4], p[5], p[6]) +
		tetraVolume(p[0], p[5], p[1], p[6])
}

// CellFieldNames returns the per-cell array names in insertion order.
func (g *Grid) CellFieldNames() []string { return fieldNames(g.cellData) }

// PointFieldNames returns the per-point array names in insertion order.
func (g *Grid) PointFieldNames() []string { return fieldNames(g.pointData) }

func fieldNames(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// FieldValues returns the values of a cell or point array. The slice is
// shared with the grid and must not be modified.
func (g *Grid) FieldValues(name string) ([]float64, bool) {
	for _, fields := range [][]Field{g.cellData, g.pointData} {
		for _, f := range fields {
			if f.Name == name {
				return f.Values, true
			}
		}
	}
	return nil, false
}

// Translate moves every point by d.
func (g *Grid) Translate(d model3d.Coord3D) error {
	if err := g.checkTransformable(); err != nil {
		return err
	}
	for i := range g.points {
		g.points[i] = g.points[i].Add(d)
	}
	return nil
}

// RotateX rotates every point about the x axis through the origin.
func (g *Grid) RotateX(degrees float64) error { return g.rotate(model3d.X(1), degrees) }

// RotateY rotates every point about the y axis through the origin.
func (g *Grid) RotateY(degrees float64) error { return g.rotate(model3d.Y(1), degrees) }

// RotateZ rotates every point about the z axis through the origin.
func (g *Grid) RotateZ(degrees float64) error { return g.rotate(model3d.Z(1), degrees) }

func (g *Grid) rotate(axis model3d.Coord3D, degrees float64) error {
	if err := g.checkTransformable(); err != nil {
		return err
	}
	m := model3d.NewMatrix3Rotation(axis, degrees*math.Pi/180)
	for i := range g.points {
		g.points[i] = m.MulColumn(g.points[i])
	}
	return nil
}

func (g *Grid) checkTransformable() error {
	if g.kind == core.KindStructuredGrid || g.kind == core.KindUnstructuredGrid {
		return nil
	}
	return fmt.Errorf("%w (grid is %s)", ErrNotTransformable, g.kind)
}

// Bounds returns xmin, xmax, ymin, ymax, zmin, zmax over all points.
func (g *Grid) Bounds() core.Bounds {
	n := g.NumPoints()
	if n == 0 {
		return core.Bounds{}
	}
	lo := g.point(0)
	hi := lo
	for id := 1; id < n; id++ {
		p := g.point(id)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return core.Bounds{lo.X, hi.X, lo.Y, hi.Y, lo.Z, hi.Z}
}

// toStructured expands implicit coordinates into a structured grid.
func (g *Grid) toStructured() (*Grid, error) {
	switch g.kind {
	case core.KindStructuredGrid:
		return g.clone(), nil
	case core.KindRectilinearGrid, core.KindOther:
		s := &Grid{kind: core.KindStructuredGrid, dims: g.dims, points: g.Points()}
		s.cellData = cloneFields(g.cellData)
		s.pointData = cloneFields(g.pointData)
		return s, nil
	default:
		return nil, fmt.Errorf("grid: cannot cast %s to StructuredGrid", g.kind)
	}
}

// toUnstructured lists every point and cell explicitly.
func (g *Grid) toUnstructured() *Grid {
	if g.kind == core.KindUnstructuredGrid {
		return g.clone()
	}
	u := &Grid{kind: core.KindUnstructuredGrid, points: g.Points()}
	u.cells = make([]Cell, g.NumCells())
	for i := range u.cells {
		u.cells[i] = g.cell(i)
	}
	u.cellData = cloneFields(g.cellData)
	u.pointData = cloneFields(g.pointData)
	return u
}
