package grid

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"

	"github.com/hupe1980/vtkconverter/core"
)

func lattice(t *testing.T, x, y, z []float64) *Grid {
	t.Helper()
	var points []model3d.Coord3D
	for _, zz := range z {
		for _, yy := range y {
			for _, xx := range x {
				points = append(points, model3d.XYZ(xx, yy, zz))
			}
		}
	}
	g, err := NewStructured([3]int{len(x), len(y), len(z)}, points)
	require.NoError(t, err)
	return g
}

func unitCube() [8]model3d.Coord3D {
	return [8]model3d.Coord3D{
		model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(1, 1, 0), model3d.XYZ(0, 1, 0),
		model3d.XYZ(0, 0, 1), model3d.XYZ(1, 0, 1), model3d.XYZ(1, 1, 1), model3d.XYZ(0, 1, 1),
	}
}

func TestHexVolume(t *testing.T) {
	p := unitCube()
	assert.InDelta(t, 1.0, hexVolume(p), 1e-12)

	for i := range p {
		p[i] = model3d.XYZ(p[i].X*2, p[i].Y*3, p[i].Z*0.5)
	}
	assert.InDelta(t, 3.0, hexVolume(p), 1e-12)
}

func TestCellVolume_Types(t *testing.T) {
	c := unitCube()
	points := c[:]

	voxel := Cell{Type: CellVoxel, Points: []int{0, 1, 3, 2, 4, 5, 7, 6}}
	hex := Cell{Type: CellHexahedron, Points: []int{0, 1, 2, 3, 4, 5, 6, 7}}
	tet := Cell{Type: CellTetra, Points: []int{0, 1, 3, 4}}

	g, err := NewUnstructured(points, []Cell{voxel, hex, tet})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, g.CellVolume(0), 1e-12)
	assert.InDelta(t, 1.0, g.CellVolume(1), 1e-12)
	assert.InDelta(t, 1.0/6, g.CellVolume(2), 1e-12)
}

func TestStructured_CellsAndCenters(t *testing.T) {
	g := lattice(t, []float64{0, 1, 2}, []float64{0, 1, 2}, []float64{0, 2, 4})

	assert.Equal(t, 8, g.NumCells())
	assert.Equal(t, 27, g.NumPoints())
	assert.Equal(t, 3, g.Dimensionality())

	centers := g.CellCenters()
	require.Len(t, centers, 8, spew.Sdump(centers))
	assert.Equal(t, model3d.XYZ(0.5, 0.5, 1), centers[0])
	assert.Equal(t, model3d.XYZ(1.5, 0.5, 1), centers[1])
	assert.Equal(t, model3d.XYZ(0.5, 1.5, 1), centers[2])
	assert.Equal(t, model3d.XYZ(1.5, 1.5, 3), centers[7])

	for i := 0; i < g.NumCells(); i++ {
		assert.InDelta(t, 2.0, g.CellVolume(i), 1e-12, "cell %d", i)
	}
	assert.Equal(t, core.Bounds{0, 2, 0, 2, 0, 4}, g.Bounds())
}

func TestConstructors_Validation(t *testing.T) {
	_, err := NewStructured([3]int{2, 2, 1}, nil)
	assert.Error(t, err)

	_, err = NewStructured([3]int{2, 2, 2}, make([]model3d.Coord3D, 7))
	assert.Error(t, err)

	_, err = NewUnstructured(make([]model3d.Coord3D, 3), []Cell{{Type: CellTetra, Points: []int{0, 1, 2, 3}}})
	assert.Error(t, err)

	_, err = NewUnstructured(make([]model3d.Coord3D, 4), []Cell{{Type: 5, Points: []int{0, 1, 2}}})
	assert.Error(t, err)

	g := lattice(t, []float64{0, 1}, []float64{0, 1}, []float64{0, 1})
	assert.Error(t, g.AddCellField("v", []float64{1, 2}))
	assert.Error(t, g.AddPointField("p", []float64{1}))
}

func TestFields_OrderAndReplace(t *testing.T) {
	g := lattice(t, []float64{0, 1}, []float64{0, 1}, []float64{0, 1})
	require.NoError(t, g.AddCellField("b", []float64{1}))
	require.NoError(t, g.AddCellField("a", []float64{2}))
	require.NoError(t, g.AddCellField("b", []float64{3}))
	require.NoError(t, g.AddPointField("p", make([]float64, 8)))

	assert.Equal(t, []string{"b", "a"}, g.CellFieldNames())
	assert.Equal(t, []string{"p"}, g.PointFieldNames())

	v, ok := g.FieldValues("b")
	require.True(t, ok)
	assert.Equal(t, []float64{3}, v)

	_, ok = g.FieldValues("missing")
	assert.False(t, ok)
}

func TestClone_IsDeep(t *testing.T) {
	g := lattice(t, []float64{0, 1}, []float64{0, 1}, []float64{0, 1})
	require.NoError(t, g.AddCellField("v", []float64{1}))

	c := g.Clone()
	require.NoError(t, c.Translate(model3d.XYZ(10, 0, 0)))
	v, _ := c.FieldValues("v")
	v[0] = 42

	assert.Equal(t, model3d.XYZ(0, 0, 0), g.Points()[0])
	orig, _ := g.FieldValues("v")
	assert.Equal(t, []float64{1}, orig)
}

func TestTranslate_RoundTrip(t *testing.T) {
	g := lattice(t, []float64{0, 1}, []float64{0, 1}, []float64{0, 3})
	before := g.Points()

	require.NoError(t, g.Translate(model3d.XYZ(1, -2, 0.5)))
	require.NoError(t, g.Translate(model3d.XYZ(-1, 2, -0.5)))

	after := g.Points()
	for i := range before {
		assert.InDelta(t, 0, before[i].Dist(after[i]), 1e-12, "point %d", i)
	}
}

func TestRotateZ_HalfTurn(t *testing.T) {
	g := lattice(t, []float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	before := g.Points()

	require.NoError(t, g.RotateZ(180))

	after := g.Points()
	for i, p := range before {
		assert.InDelta(t, -p.X, after[i].X, 1e-9)
		assert.InDelta(t, -p.Y, after[i].Y, 1e-9)
		assert.InDelta(t, p.Z, after[i].Z, 1e-9)
	}
}

func TestRotate_RoundTripPreservesVolume(t *testing.T) {
	g := lattice(t, []float64{0, 1}, []float64{0, 2}, []float64{0, 3})
	before := g.Points()

	require.NoError(t, g.RotateX(30))
	require.NoError(t, g.RotateY(45))
	assert.InDelta(t, 6.0, g.CellVolume(0), 1e-9)

	require.NoError(t, g.RotateY(-45))
	require.NoError(t, g.RotateX(-30))

	after := g.Points()
	for i := range before {
		assert.InDelta(t, 0, before[i].Dist(after[i]), 1e-9, "point %d", i)
	}
}

func TestTransform_ImplicitGridsRefuse(t *testing.T) {
	r, err := NewRectilinear([]float64{0, 1}, []float64{0, 1}, []float64{0, 1})
	require.NoError(t, err)
	assert.ErrorIs(t, r.Translate(model3d.XYZ(1, 0, 0)), ErrNotTransformable)
	assert.ErrorIs(t, r.RotateZ(90), ErrNotTransformable)

	img, err := NewImageData([3]int{2, 2, 2}, model3d.XYZ(0, 0, 0), model3d.XYZ(1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, core.KindOther, img.Kind())
	assert.ErrorIs(t, img.Translate(model3d.XYZ(1, 0, 0)), ErrNotTransformable)
}

func TestRectilinear_ToStructured(t *testing.T) {
	r, err := NewRectilinear([]float64{0, 1, 3}, []float64{0, 2}, []float64{0, 1})
	require.NoError(t, err)
	require.NoError(t, r.AddCellField("v", []float64{1, 2}))

	s, err := r.toStructured()
	require.NoError(t, err)

	assert.Equal(t, core.KindStructuredGrid, s.Kind())
	assert.Equal(t, r.Points(), s.Points())
	assert.Equal(t, r.CellCenters(), s.CellCenters())
	assert.InDelta(t, 4.0, s.CellVolume(1), 1e-12)
	assert.Equal(t, []string{"v"}, s.CellFieldNames())

	_, err = r.toStructured()
	require.NoError(t, err)
}

func TestImageData_Points(t *testing.T) {
	img, err := NewImageData([3]int{2, 2, 2}, model3d.XYZ(1, 1, 1), model3d.XYZ(0.5, 1, 2))
	require.NoError(t, err)

	points := img.Points()
	require.Len(t, points, 8)
	assert.Equal(t, model3d.XYZ(1, 1, 1), points[0])
	assert.Equal(t, model3d.XYZ(1.5, 2, 3), points[7])
	assert.InDelta(t, 1.0, img.CellVolume(0), 1e-12)
}
