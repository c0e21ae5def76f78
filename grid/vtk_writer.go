package grid

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/unixpickle/model3d/model3d"

	"github.com/hupe1980/vtkconverter/core"
)

// Encode writes g as a legacy VTK (version 3.0) dataset. Binary payloads are
// big-endian, as the format requires.
func Encode(w io.Writer, g *Grid, binaryMode bool) error {
	e := &vtkWriter{w: w, binary: binaryMode}
	mode := "ASCII"
	if binaryMode {
		mode = "BINARY"
	}
	e.printf("%s 3.0\nvtkconverter %s\n%s\n", vtkHeader, g.kind, mode)

	switch g.kind {
	case core.KindStructuredGrid:
		e.printf("DATASET STRUCTURED_GRID\nDIMENSIONS %d %d %d\n", g.dims[0], g.dims[1], g.dims[2])
		e.points(g.points)
	case core.KindRectilinearGrid:
		e.printf("DATASET RECTILINEAR_GRID\nDIMENSIONS %d %d %d\n", g.dims[0], g.dims[1], g.dims[2])
		for i, name := range []string{"X_COORDINATES", "Y_COORDINATES", "Z_COORDINATES"} {
			e.printf("%s %d double\n", name, len(g.axes[i]))
			e.floats(g.axes[i])
		}
	case core.KindOther:
		e.printf("DATASET STRUCTURED_POINTS\nDIMENSIONS %d %d %d\n", g.dims[0], g.dims[1], g.dims[2])
		e.printf("ORIGIN %s %s %s\n", fmtFloat(g.origin.X), fmtFloat(g.origin.Y), fmtFloat(g.origin.Z))
		e.printf("SPACING %s %s %s\n", fmtFloat(g.spacing.X), fmtFloat(g.spacing.Y), fmtFloat(g.spacing.Z))
	case core.KindUnstructuredGrid:
		e.printf("DATASET UNSTRUCTURED_GRID\n")
		e.points(g.points)
		e.cells(g.cells)
	}

	if len(g.cellData) > 0 {
		e.printf("CELL_DATA %d\n", g.NumCells())
		e.fields(g.cellData)
	}
	if len(g.pointData) > 0 {
		e.printf("POINT_DATA %d\n", g.NumPoints())
		e.fields(g.pointData)
	}
	return e.err
}

type vtkWriter struct {
	w      io.Writer
	binary bool
	err    error
}

func (e *vtkWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *vtkWriter) raw(data any) {
	if e.err != nil {
		return
	}
	if e.err = binary.Write(e.w, binary.BigEndian, data); e.err == nil {
		e.printf("\n")
	}
}

func (e *vtkWriter) points(points []model3d.Coord3D) {
	e.printf("POINTS %d double\n", len(points))
	flat := make([]float64, 0, 3*len(points))
	for _, p := range points {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	e.floats(flat)
}

func (e *vtkWriter) floats(values []float64) {
	if e.binary {
		e.raw(values)
		return
	}
	for i, x := range values {
		sep := " "
		if i%9 == 8 || i == len(values)-1 {
			sep = "\n"
		}
		e.printf("%s%s", fmtFloat(x), sep)
	}
}

func (e *vtkWriter) cells(cells []Cell) {
	size := 0
	for _, c := range cells {
		size += 1 + len(c.Points)
	}
	e.printf("CELLS %d %d\n", len(cells), size)
	if e.binary {
		flat := make([]int32, 0, size)
		for _, c := range cells {
			flat = append(flat, int32(len(c.Points)))
			for _, id := range c.Points {
				flat = append(flat, int32(id))
			}
		}
		e.raw(flat)
	} else {
		for _, c := range cells {
			row := make([]string, 0, len(c.Points)+1)
			row = append(row, strconv.Itoa(len(c.Points)))
			for _, id := range c.Points {
				row = append(row, strconv.Itoa(id))
			}
			e.printf("%s\n", strings.Join(row, " "))
		}
	}

	e.printf("CELL_TYPES %d\n", len(cells))
	if e.binary {
		types := make([]int32, len(cells))
		for i, c := range cells {
			types[i] = int32(c.Type)
		}
		e.raw(types)
		return
	}
	for _, c := range cells {
		e.printf("%d\n", c.Type)
	}
}

func (e *vtkWriter) fields(fields []Field) {
	for _, f := range fields {
		e.printf("SCALARS %s double 1\nLOOKUP_TABLE default\n", escapeName(f.Name))
		e.floats(f.Values)
	}
}

func fmtFloat(x float64) string {
	if math.IsNaN(x) {
		return "nan"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// escapeName applies the %XX escaping VTK uses for array names.
func escapeName(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c == '%' || c >= 0x7f {
			fmt.Fprintf(&sb, "%%%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
