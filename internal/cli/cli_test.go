package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vtkconverter/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exampleFile(t *testing.T) string {
	t.Helper()
	return testutil.WriteVTK(t, t.TempDir(), "example.vts", testutil.ExampleGrid(t))
}

func TestInfoCommand(t *testing.T) {
	path := exampleFile(t)

	out, err := execute(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Type:        StructuredGrid")
	assert.Contains(t, out, "Cells:       8")
	assert.Contains(t, out, "Cell data:   Values")
	assert.Contains(t, out, "Dimensions:  2 x 2 x 4")
}

func TestStatsCommand(t *testing.T) {
	path := exampleFile(t)

	out, err := execute(t, "stats", path, "Values")
	require.NoError(t, err)
	assert.Contains(t, out, "Integral:    33\n")
	assert.Contains(t, out, "Average:     4.125\n")
	assert.Contains(t, out, "Integral*V:")

	_, err = execute(t, "stats", path, "Nope")
	assert.Error(t, err)
}

func TestWriteCommand(t *testing.T) {
	path := exampleFile(t)
	outDir := filepath.Join(t.TempDir(), "exports")

	out, err := execute(t, "--out", outDir, "--scale", "2", "--safety", "10",
		"write", path, "--format", "point_cloud", "--field", "Values")
	require.NoError(t, err)

	file := filepath.Join(outDir, "example_Values_point_cloud.txt")
	assert.Contains(t, out, "File "+file+" created")
	assert.Contains(t, testutil.ReadFile(t, file), "1.000,1.000,2.000,10.000\n")
}

func TestWriteCommand_LogsMesh(t *testing.T) {
	path := exampleFile(t)

	out, err := execute(t, "--log-level", "debug", "--out", t.TempDir(),
		"write", path, "--format", "csv", "--field", "Values")
	require.NoError(t, err)
	assert.Contains(t, out, "component=cli mesh="+path)
	assert.Contains(t, out, "operation=write")
}

func TestWriteCommand_InvalidFormat(t *testing.T) {
	path := exampleFile(t)

	_, err := execute(t, "write", path, "--format", "vtk", "--field", "Values")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestTranslateCommand_Save(t *testing.T) {
	path := exampleFile(t)

	out, err := execute(t, "translate", path, "1", "2", "3", "--save", "binary")
	require.NoError(t, err)

	derived := filepath.Join(filepath.Dir(path), "example+Trans(1,2,3).vts")
	assert.Contains(t, out, "Mesh "+derived+" created (StructuredGrid)")
	assert.Contains(t, out, "File "+derived+" saved")
	_, err = os.Stat(derived)
	assert.NoError(t, err)

	_, err = execute(t, "translate", path, "1", "x", "3")
	assert.Error(t, err)
}

func TestJointCommand(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteVTK(t, dir, "a.vts", testutil.ExampleGrid(t))
	b := testutil.WriteVTK(t, dir, "b.vtr", testutil.ExampleBuilder().Rectilinear(t))

	out, err := execute(t, "joint", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "(UnstructuredGrid)")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteVTK(t, dir, "example.vts", testutil.ExampleGrid(t))
	job := `
scale: 2
out: exports
open: [example.vts]
steps:
  - translate: {mesh: example.vts, by: [1, 0, 0]}
  - rotate: {mesh: "@last", by: [0, 0, 180]}
  - write: {mesh: "@last", fields: [Values, Index], format: point_cloud}
  - safety: 10
  - write: {mesh: example.vts, fields: [Values], format: csv}
  - stats: {mesh: example.vts, fields: [Values]}
  - save: {mesh: "@last", mode: ascii}
`
	jobPath := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(jobPath, []byte(job), 0o644))

	out, err := execute(t, "run", jobPath)
	require.NoError(t, err, out)

	assert.Equal(t, 2, strings.Count(out, "Mesh "))
	assert.Equal(t, 4, strings.Count(out, "File "))
	assert.Contains(t, out, "Integral:    33\n")

	csv := testutil.ReadFile(t, filepath.Join(dir, "exports", "example_['Values']_csv.csv"))
	assert.True(t, strings.HasPrefix(csv, "1.000, 1.000, 2.000, 10.000\r\n"), csv)

	_, err = os.Stat(filepath.Join(dir, "example+Trans(1,0,0)+Rot(0,0,180).vts"))
	assert.NoError(t, err)
}

func TestLoadJob_Validation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - {}\n"), 0o644))

	_, err := LoadJob(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - rotate: {mesh: \"@last\", by: [0, 0, 1]}\n"), 0o644))
	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "@last", job.Steps[0].Rotate.Mesh)

	_, err = execute(t, "run", path)
	assert.Error(t, err)
}
