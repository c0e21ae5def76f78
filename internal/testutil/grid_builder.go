package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/unixpickle/model3d/model3d"

	"github.com/hupe1980/vtkconverter/core"
	"github.com/hupe1980/vtkconverter/grid"
)

// ExampleValues is the "Values" cell field of ExampleGrid. It sums to 33.
var ExampleValues = []float64{1, 2, 3, 4, 5, 6, 7, 5}

// GridBuilder helps construct lattice grids with fluent chaining for tests.
// Example:
//
//	g := NewGridBuilder([]float64{0, 1}, []float64{0, 1}, []float64{0, 1}).CellField("v", []float64{1}).Structured(t)
type GridBuilder struct {
	axes        [3][]float64
	cellFields  []grid.Field
	pointFields []grid.Field
}

// NewGridBuilder creates a builder for a lattice with the given axis coordinates.
func NewGridBuilder(x, y, z []float64) *GridBuilder {
	return &GridBuilder{axes: [3][]float64{x, y, z}}
}

// CellField adds a per-cell field (chainable).
func (b *GridBuilder) CellField(name string, values []float64) *GridBuilder {
	b.cellFields = append(b.cellFields, grid.Field{Name: name, Values: values})
	return b
}

// PointField adds a per-point field (chainable).
func (b *GridBuilder) PointField(name string, values []float64) *GridBuilder {
	b.pointFields = append(b.pointFields, grid.Field{Name: name, Values: values})
	return b
}

// Rectilinear returns the lattice as a rectilinear grid.
func (b *GridBuilder) Rectilinear(t testing.TB) *grid.Grid {
	t.Helper()
	g, err := grid.NewRectilinear(b.axes[0], b.axes[1], b.axes[2])
	if err != nil {
		t.Fatalf("rectilinear grid: %v", err)
	}
	b.fill(t, g)
	return g
}

// Structured returns the lattice as a structured grid with explicit points.
func (b *GridBuilder) Structured(t testing.TB) *grid.Grid {
	t.Helper()
	dims := [3]int{len(b.axes[0]), len(b.axes[1]), len(b.axes[2])}
	points := make([]model3d.Coord3D, 0, dims[0]*dims[1]*dims[2])
	for _, z := range b.axes[2] {
		for _, y := range b.axes[1] {
			for _, x := range b.axes[0] {
				points = append(points, model3d.XYZ(x, y, z))
			}
		}
	}
	g, err := grid.NewStructured(dims, points)
	if err != nil {
		t.Fatalf("structured grid: %v", err)
	}
	b.fill(t, g)
	return g
}

func (b *GridBuilder) fill(t testing.TB, g *grid.Grid) {
	t.Helper()
	for _, f := range b.cellFields {
		if err := g.AddCellField(f.Name, f.Values); err != nil {
			t.Fatalf("cell field %s: %v", f.Name, err)
		}
	}
	for _, f := range b.pointFields {
		if err := g.AddPointField(f.Name, f.Values); err != nil {
			t.Fatalf("point field %s: %v", f.Name, err)
		}
	}
}

// ExampleBuilder is the 2x2x2 cell lattice with x and y in {0,1,2} and z in
// {0,2,4}, so every cell has volume 2. It carries the cell field "Values"
// (ExampleValues) and the point field "Index" (0..26).
func ExampleBuilder() *GridBuilder {
	index := make([]float64, 27)
	for i := range index {
		index[i] = float64(i)
	}
	return NewGridBuilder([]float64{0, 1, 2}, []float64{0, 1, 2}, []float64{0, 2, 4}).
		CellField("Values", append([]float64(nil), ExampleValues...)).
		PointField("Index", index)
}

// ExampleGrid returns ExampleBuilder as a structured grid.
func ExampleGrid(t testing.TB) *grid.Grid {
	t.Helper()
	return ExampleBuilder().Structured(t)
}

// UnitGrid is ExampleGrid with z in {0,1,2}, so every cell has volume 1.
func UnitGrid(t testing.TB) *grid.Grid {
	t.Helper()
	return NewGridBuilder([]float64{0, 1, 2}, []float64{0, 1, 2}, []float64{0, 1, 2}).
		CellField("Values", append([]float64(nil), ExampleValues...)).
		Structured(t)
}

// TwoPointGrid returns an unstructured grid with the points (0,0,0) and
// (1,1,1), no cells, and the point field "P" = [1, 2].
func TwoPointGrid(t testing.TB) *grid.Grid {
	t.Helper()
	g, err := grid.NewUnstructured([]model3d.Coord3D{model3d.XYZ(0, 0, 0), model3d.XYZ(1, 1, 1)}, nil)
	if err != nil {
		t.Fatalf("unstructured grid: %v", err)
	}
	if err := g.AddPointField("P", []float64{1, 2}); err != nil {
		t.Fatalf("point field: %v", err)
	}
	return g
}

// Tally wraps g into a mesh tally named name.
func Tally(name string, g core.Geometry) *core.MeshTally {
	return core.NewMeshTally(name, g)
}

// WriteVTK saves g as an ASCII legacy VTK file named name under dir and
// returns its path.
func WriteVTK(t testing.TB, dir, name string, g *grid.Grid) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := grid.Encode(f, g, false); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path as a string.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
