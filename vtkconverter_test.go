package vtkconverter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vtkconverter/core"
	"github.com/hupe1980/vtkconverter/grid"
	"github.com/hupe1980/vtkconverter/internal/testutil"
)

func openExample(t *testing.T) (*Converter, string, string) {
	t.Helper()
	dir := t.TempDir()
	out := t.TempDir()
	path := testutil.WriteVTK(t, dir, "example.vts", testutil.ExampleGrid(t))

	c := New(func(o *Options) { o.OutputDir = out })
	_, err := c.Open(context.Background(), path)
	require.NoError(t, err)
	return c, path, out
}

func TestConverter_OpenTwiceFails(t *testing.T) {
	c, path, _ := openExample(t)

	_, err := c.Open(context.Background(), path)
	assert.True(t, errors.Is(err, core.ErrAlreadyOpen))
	assert.Equal(t, []string{path}, c.Names())
}

func TestConverter_OpenMissingFile(t *testing.T) {
	c := New()
	_, err := c.Open(context.Background(), filepath.Join(t.TempDir(), "missing.vtk"))
	assert.Error(t, err)
	assert.Empty(t, c.Names())
}

func TestConverter_OpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.vtk")
	src := "# vtk DataFile Version 3.0\nx\nASCII\nDATASET UNSTRUCTURED_GRID\nPOINTS -1 float\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	c := New()
	_, err := c.Open(context.Background(), path)
	assert.ErrorIs(t, err, grid.ErrMalformed)
	assert.Empty(t, c.Names())
}

func TestConverter_InfoAndAggregate(t *testing.T) {
	c, path, _ := openExample(t)

	info, err := c.Info(path)
	require.NoError(t, err)
	assert.Equal(t, core.KindStructuredGrid, info.Kind)
	assert.Equal(t, 8, info.NumCells)
	assert.Equal(t, [3]float64{2, 2, 4}, info.Dimensions())

	res, err := c.Aggregate(path, "Values")
	require.NoError(t, err)
	assert.Equal(t, 33.0, res.Integral)
	assert.InDelta(t, 66.0, res.WeightedIntegral, 1e-9)

	st, err := c.Describe(path, "Index")
	require.NoError(t, err)
	assert.Equal(t, 26.0, st.Max)

	_, err = c.Info("missing.vts")
	assert.True(t, errors.Is(err, core.ErrUnknownMesh))
	_, err = c.Aggregate("missing.vts", "Values")
	assert.True(t, errors.Is(err, core.ErrUnknownMesh))
}

func TestConverter_TransformThenWrite(t *testing.T) {
	c, path, out := openExample(t)
	ctx := context.Background()

	moved, err := c.Translate(ctx, path, 1, 2, 3)
	require.NoError(t, err)
	rotated, err := c.Rotate(ctx, moved.Name, 0, 0, 180)
	require.NoError(t, err)
	joint, err := c.Joint(ctx, path, rotated.Name)
	require.NoError(t, err)
	assert.Equal(t, core.KindUnstructuredGrid, joint.Kind)
	assert.Len(t, c.Names(), 4)

	paths, err := c.Write(ctx, joint.Name, []string{"Values"}, "csv")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, out, filepath.Dir(paths[0]))
}

func TestConverter_WriteInvalidFormat(t *testing.T) {
	c, path, _ := openExample(t)

	_, err := c.Write(context.Background(), path, []string{"Values"}, "vtk")
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))

	_, err = c.Write(context.Background(), "missing.vts", []string{"Values"}, "csv")
	assert.True(t, errors.Is(err, core.ErrUnknownMesh))
}

func TestConverter_FactorsApplyToLaterExportsOnly(t *testing.T) {
	c, path, _ := openExample(t)
	ctx := context.Background()

	first, err := c.Write(ctx, path, []string{"Values"}, "point_cloud")
	require.NoError(t, err)
	before := testutil.ReadFile(t, first[0])

	c.SetScaleFactor(2)
	c.SetSafetyFactor(10)
	assert.Equal(t, core.Factors{Scale: 2, Safety: 10}, c.Factors())

	// the earlier file is untouched until it is written again
	assert.Equal(t, before, testutil.ReadFile(t, first[0]))

	second, err := c.Write(ctx, path, []string{"Values"}, "point_cloud")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, testutil.ReadFile(t, second[0]), "1.000,1.000,2.000,10.000\n")
	assert.Contains(t, before, "0.500,0.500,1.000,1.000\n")

	info, err := c.Info(path)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{2, 2, 4}, info.Dimensions())
}

func TestConverter_SaveModes(t *testing.T) {
	c, path, _ := openExample(t)
	ctx := context.Background()

	moved, err := c.Translate(ctx, path, 1, 0, 0)
	require.NoError(t, err)

	for _, mode := range []string{SaveASCII, SaveBinary} {
		require.NoError(t, c.Save(ctx, moved.Name, mode))

		reopened := New()
		m, err := reopened.Open(ctx, moved.Name)
		require.NoError(t, err)
		assert.Equal(t, core.Bounds{1, 3, 0, 2, 0, 4}, m.Info().Bounds)
	}

	err = c.Save(ctx, moved.Name, "xml")
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
}

func TestConverter_ConcurrentExportsAndTransforms(t *testing.T) {
	c, path, _ := openExample(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := c.Translate(ctx, path, float64(i), 0, 0); err != nil {
				t.Errorf("translate: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := c.Write(ctx, path, []string{"Index"}, "ip_fluent"); err != nil {
				t.Errorf("write: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, c.Names(), 5)
}
