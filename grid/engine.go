package grid

import (
	"bufio"
	"fmt"
	"os"

	"github.com/unixpickle/model3d/model3d"

	"github.com/hupe1980/vtkconverter/core"
	"github.com/hupe1980/vtkconverter/logging"
)

// Engine implements core.Engine over legacy VTK files.
type Engine struct {
	logger logging.Logger
}

var _ core.Engine = (*Engine)(nil)

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger logging.Logger) *Engine {
	return &Engine{logger: logging.OrNoOp(logger)}
}

// Load reads a legacy VTK file.
func (e *Engine) Load(path string) (core.Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("grid: open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("grid: read %s: %w", path, err)
	}
	e.logger.Debug("Grid loaded", "path", path, "kind", g.Kind().String(), "cells", g.NumCells(), "points", g.NumPoints())
	return g, nil
}

// CastToStructuredGrid converts rectilinear grids and image data into
// structured grids; structured grids are cloned.
func (e *Engine) CastToStructuredGrid(g core.Geometry) (core.Geometry, error) {
	src, err := asGrid(g)
	if err != nil {
		return nil, err
	}
	return src.toStructured()
}

// Merge appends b to a. Coincident points collapse into one (the first
// occurrence keeps its point data) and only arrays present in both inputs,
// in the same domain, are carried over.
func (e *Engine) Merge(a, b core.Geometry) (core.Geometry, error) {
	ga, err := asGrid(a)
	if err != nil {
		return nil, err
	}
	gb, err := asGrid(b)
	if err != nil {
		return nil, err
	}
	ua, ub := ga.toUnstructured(), gb.toUnstructured()

	out := &Grid{kind: core.KindUnstructuredGrid}
	index := make(map[model3d.Coord3D]int, len(ua.points)+len(ub.points))
	var sources [][2]int // (input, point id) of each merged point

	remap := func(input int, u *Grid) []int {
		ids := make([]int, len(u.points))
		for i, p := range u.points {
			id, ok := index[p]
			if !ok {
				id = len(out.points)
				index[p] = id
				out.points = append(out.points, p)
				sources = append(sources, [2]int{input, i})
			}
			ids[i] = id
		}
		return ids
	}
	idsA := remap(0, ua)
	idsB := remap(1, ub)

	for input, u := range []*Grid{ua, ub} {
		ids := idsA
		if input == 1 {
			ids = idsB
		}
		for _, c := range u.cells {
			pts := make([]int, len(c.Points))
			for j, id := range c.Points {
				pts[j] = ids[id]
			}
			out.cells = append(out.cells, Cell{Type: c.Type, Points: pts})
		}
	}

	for _, fa := range ua.cellData {
		vb, ok := findField(ub.cellData, fa.Name)
		if !ok {
			continue
		}
		values := make([]float64, 0, len(fa.Values)+len(vb))
		values = append(values, fa.Values...)
		out.cellData = append(out.cellData, Field{Name: fa.Name, Values: append(values, vb...)})
	}
	for _, fa := range ua.pointData {
		vb, ok := findField(ub.pointData, fa.Name)
		if !ok {
			continue
		}
		values := make([]float64, len(out.points))
		for i, src := range sources {
			if src[0] == 0 {
				values[i] = fa.Values[src[1]]
			} else {
				values[i] = vb[src[1]]
			}
		}
		out.pointData = append(out.pointData, Field{Name: fa.Name, Values: values})
	}

	e.logger.Debug("Grids merged", "cells", out.NumCells(), "points", out.NumPoints(), "collapsed_points", len(ua.points)+len(ub.points)-len(out.points))
	return out, nil
}

func findField(fields []Field, name string) ([]float64, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Values, true
		}
	}
	return nil, false
}

// Save writes g as a legacy VTK file.
func (e *Engine) Save(g core.Geometry, path string, binary bool) error {
	src, err := asGrid(g)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("grid: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, src, binary); err != nil {
		_ = f.Close()
		return fmt.Errorf("grid: write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("grid: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("grid: close %s: %w", path, err)
	}
	e.logger.Debug("Grid saved", "path", path, "binary", binary)
	return nil
}

func asGrid(g core.Geometry) (*Grid, error) {
	gg, ok := g.(*Grid)
	if !ok {
		return nil, fmt.Errorf("grid: unsupported geometry implementation %T", g)
	}
	return gg, nil
}
