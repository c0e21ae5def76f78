package aggregate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vtkconverter/core"
	"github.com/hupe1980/vtkconverter/internal/testutil"
)

func TestAggregate_CellFieldWeightedByVolume(t *testing.T) {
	m := testutil.Tally("data/example.vts", testutil.ExampleGrid(t))

	res, err := Aggregate(m, "Values")
	require.NoError(t, err)

	assert.Equal(t, core.DomainCells, res.Domain)
	assert.Equal(t, 8, res.Count)
	assert.Equal(t, 33.0, res.Integral)
	assert.Equal(t, 4.125, res.Average)
	assert.True(t, res.Weighted)
	assert.InDelta(t, 16.0, res.TotalVolume, 1e-12)
	assert.InDelta(t, 66.0, res.WeightedIntegral, 1e-9)
	assert.InDelta(t, 4.125, res.WeightedAverage, 1e-12)
}

func TestAggregate_UnitVolumeMatchesPlain(t *testing.T) {
	m := testutil.Tally("data/unit.vts", testutil.UnitGrid(t))

	res, err := Aggregate(m, "Values")
	require.NoError(t, err)
	assert.InDelta(t, 33.0, res.WeightedIntegral, 1e-9)
	assert.InDelta(t, res.Average, res.WeightedAverage, 1e-12)
}

func TestAggregate_RectilinearMatchesStructured(t *testing.T) {
	rect := testutil.Tally("data/example.vtr", testutil.ExampleBuilder().Rectilinear(t))
	structured := testutil.Tally("data/example.vts", testutil.ExampleGrid(t))

	a, err := Aggregate(rect, "Values")
	require.NoError(t, err)
	b, err := Aggregate(structured, "Values")
	require.NoError(t, err)
	assert.InDelta(t, b.WeightedIntegral, a.WeightedIntegral, 1e-9)
}

func TestAggregate_PointFieldIsUnweighted(t *testing.T) {
	m := testutil.Tally("two.vtu", testutil.TwoPointGrid(t))

	res, err := Aggregate(m, "P")
	require.NoError(t, err)
	assert.Equal(t, core.DomainPoints, res.Domain)
	assert.Equal(t, 3.0, res.Integral)
	assert.Equal(t, 1.5, res.Average)
	assert.False(t, res.Weighted)
	assert.Zero(t, res.WeightedIntegral)
}

func TestAggregate_UnknownField(t *testing.T) {
	m := testutil.Tally("data/example.vts", testutil.ExampleGrid(t))

	_, err := Aggregate(m, "Nope")
	assert.True(t, errors.Is(err, core.ErrUnknownField))
}

func TestAggregate_SumOrder(t *testing.T) {
	// 1e17 + 1 rounds back to 1e17, so only the trailing 1 survives
	assert.Equal(t, 1.0, sum([]float64{1e17, 1, -1e17, 1}))
}

func TestAggregate_EmptyCellField(t *testing.T) {
	g := testutil.TwoPointGrid(t)
	require.NoError(t, g.AddCellField("C", nil))
	m := testutil.Tally("two.vtu", g)

	res, err := Aggregate(m, "C")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Zero(t, res.Integral)
	assert.True(t, math.IsNaN(res.Average))
	assert.True(t, math.IsNaN(res.WeightedAverage))
}

func TestDescribe(t *testing.T) {
	m := testutil.Tally("data/example.vts", testutil.ExampleGrid(t))

	st, err := Describe(m, "Values")
	require.NoError(t, err)
	assert.Equal(t, 1.0, st.Min)
	assert.Equal(t, 7.0, st.Max)
	assert.Equal(t, 33.0, st.Integral)

	st, err = Describe(m, "Index")
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.Min)
	assert.Equal(t, 26.0, st.Max)

	_, err = Describe(m, "Nope")
	assert.Error(t, err)
}
