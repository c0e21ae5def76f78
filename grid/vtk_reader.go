package grid

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unixpickle/model3d/model3d"
)

// ErrMalformed is wrapped by every decoding error caused by the file content.
var ErrMalformed = errors.New("malformed legacy VTK data")

const vtkHeader = "# vtk DataFile Version"

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// vtkReader tokenizes a legacy VTK stream. Keywords and ASCII numbers are
// whitespace separated tokens; BINARY payloads start right after the newline
// ending their keyword line and are big-endian.
type vtkReader struct {
	r      *bufio.Reader
	binary bool
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func (v *vtkReader) line() (string, error) {
	s, err := v.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// token returns the next whitespace separated token. The whitespace byte that
// ends the token is left unread.
func (v *vtkReader) token() (string, error) {
	for {
		b, err := v.r.ReadByte()
		if err != nil {
			return "", err
		}
		if !isSpace(b) {
			_ = v.r.UnreadByte()
			break
		}
	}
	var sb strings.Builder
	for {
		b, err := v.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if isSpace(b) {
			_ = v.r.UnreadByte()
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}

// moreOnLine reports whether another token follows on the current line.
func (v *vtkReader) moreOnLine() bool {
	for {
		next, err := v.r.Peek(1)
		if err != nil {
			return false
		}
		switch next[0] {
		case ' ', '\t':
			_, _ = v.r.ReadByte()
		case '\r', '\n':
			return false
		default:
			return true
		}
	}
}

// restOfLine discards everything up to and including the next newline.
func (v *vtkReader) restOfLine() error {
	_, err := v.r.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// truncated maps a premature end of input to ErrMalformed.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return malformed("unexpected end of data")
	}
	return err
}

func (v *vtkReader) int() (int, error) {
	t, err := v.token()
	if err != nil {
		return 0, truncated(err)
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, malformed("expected integer, got %q", t)
	}
	return n, nil
}

func (v *vtkReader) float() (float64, error) {
	t, err := v.token()
	if err != nil {
		return 0, truncated(err)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, malformed("expected number, got %q", t)
	}
	return f, nil
}

// values reads n numbers of the given VTK data type following a keyword line.
func (v *vtkReader) values(n int, dataType string) ([]float64, error) {
	if n < 0 {
		return nil, malformed("negative count %d", n)
	}
	if v.binary {
		if err := v.restOfLine(); err != nil {
			return nil, err
		}
		return v.payload(n, dataType)
	}
	out := make([]float64, n)
	for i := range out {
		f, err := v.float()
		if err != nil {
			return nil, fmt.Errorf("value %d of %d: %w", i, n, err)
		}
		out[i] = f
	}
	return out, nil
}

// payload reads n big-endian binary numbers at the current position.
func (v *vtkReader) payload(n int, dataType string) ([]float64, error) {
	if n < 0 {
		return nil, malformed("negative count %d", n)
	}
	out := make([]float64, n)
	for i := range out {
		var err error
		switch dataType {
		case "double":
			var x float64
			err = binary.Read(v.r, binary.BigEndian, &x)
			out[i] = x
		case "float":
			var x float32
			err = binary.Read(v.r, binary.BigEndian, &x)
			out[i] = float64(x)
		case "int":
			var x int32
			err = binary.Read(v.r, binary.BigEndian, &x)
			out[i] = float64(x)
		case "unsigned_int":
			var x uint32
			err = binary.Read(v.r, binary.BigEndian, &x)
			out[i] = float64(x)
		case "long", "vtktypeint64":
			var x int64
			err = binary.Read(v.r, binary.BigEndian, &x)
			out[i] = float64(x)
		case "unsigned_char", "char":
			var b byte
			b, err = v.r.ReadByte()
			out[i] = float64(b)
		default:
			return nil, malformed("unsupported binary data type %q", dataType)
		}
		if err != nil {
			return nil, fmt.Errorf("value %d of %d: %w", i, n, truncated(err))
		}
	}
	return out, nil
}

func toInts(f []float64) []int {
	out := make([]int, len(f))
	for i, x := range f {
		out[i] = int(x)
	}
	return out
}

// Decode reads a legacy VTK dataset of type STRUCTURED_GRID,
// RECTILINEAR_GRID, UNSTRUCTURED_GRID or STRUCTURED_POINTS.
func Decode(r *bufio.Reader) (*Grid, error) {
	v := &vtkReader{r: r}

	header, err := v.line()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(header, vtkHeader) {
		return nil, malformed("missing %q header", vtkHeader)
	}
	if _, err := v.line(); err != nil { // title
		return nil, err
	}
	mode, err := v.line()
	if err != nil {
		return nil, err
	}
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case "ASCII":
	case "BINARY":
		v.binary = true
	default:
		return nil, malformed("unknown encoding %q", mode)
	}

	if kw, err := v.token(); err != nil || kw != "DATASET" {
		return nil, malformed("expected DATASET, got %q", kw)
	}
	dataset, err := v.token()
	if err != nil {
		return nil, err
	}

	d := &decoder{v: v, dataset: strings.ToUpper(dataset)}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.build()
}

type decoder struct {
	v       *vtkReader
	dataset string

	dims    [3]int
	axes    [3][]float64
	origin  model3d.Coord3D
	spacing model3d.Coord3D
	points  []model3d.Coord3D

	offsets      []int
	connectivity []int
	legacyCells  []int
	cellTypes    []int

	section   string // CELL_DATA or POINT_DATA
	cellData  []Field
	pointData []Field
}

func (d *decoder) run() error {
	v := d.v
	for {
		kw, err := v.token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch kw = strings.ToUpper(kw); kw {
		case "DIMENSIONS":
			for i := range d.dims {
				if d.dims[i], err = v.int(); err != nil {
					return err
				}
				if d.dims[i] < 0 {
					return malformed("negative dimension %d", d.dims[i])
				}
			}
		case "ORIGIN", "SPACING", "ASPECT_RATIO":
			var c [3]float64
			for i := range c {
				if c[i], err = v.float(); err != nil {
					return err
				}
			}
			if kw == "ORIGIN" {
				d.origin = model3d.XYZ(c[0], c[1], c[2])
			} else {
				d.spacing = model3d.XYZ(c[0], c[1], c[2])
			}
		case "X_COORDINATES", "Y_COORDINATES", "Z_COORDINATES":
			n, dataType, err := d.countAndType()
			if err != nil {
				return err
			}
			axis := int(kw[0] - 'X')
			if d.axes[axis], err = v.values(n, dataType); err != nil {
				return fmt.Errorf("%s: %w", kw, err)
			}
		case "POINTS":
			n, dataType, err := d.countAndType()
			if err != nil {
				return err
			}
			flat, err := v.values(3*n, dataType)
			if err != nil {
				return fmt.Errorf("POINTS: %w", err)
			}
			d.points = make([]model3d.Coord3D, n)
			for i := range d.points {
				d.points[i] = model3d.XYZ(flat[3*i], flat[3*i+1], flat[3*i+2])
			}
		case "CELLS":
			if err := d.readCells(); err != nil {
				return fmt.Errorf("CELLS: %w", err)
			}
		case "CELL_TYPES":
			n, err := v.int()
			if err != nil {
				return err
			}
			types, err := v.values(n, "int")
			if err != nil {
				return fmt.Errorf("CELL_TYPES: %w", err)
			}
			d.cellTypes = toInts(types)
		case "CELL_DATA", "POINT_DATA":
			if _, err := v.int(); err != nil {
				return err
			}
			d.section = kw
		case "SCALARS":
			if err := d.readScalars(); err != nil {
				return err
			}
		case "FIELD":
			if err := d.readFieldData(); err != nil {
				return err
			}
		case "VECTORS", "NORMALS":
			if err := d.skipAttribute(3); err != nil {
				return err
			}
		case "TENSORS":
			if err := d.skipAttribute(9); err != nil {
				return err
			}
		case "METADATA":
			if err := d.skipMetadata(); err != nil {
				return err
			}
		default:
			return malformed("unexpected keyword %q", kw)
		}
	}
}

func (d *decoder) countAndType() (int, string, error) {
	n, err := d.v.int()
	if err != nil {
		return 0, "", err
	}
	dataType, err := d.v.token()
	if err != nil {
		return 0, "", err
	}
	return n, dataType, nil
}

// readCells handles both the classic "k id0 id1 ..." rows and the
// OFFSETS/CONNECTIVITY layout of version 5 files.
func (d *decoder) readCells() error {
	v := d.v
	n, err := v.int()
	if err != nil {
		return err
	}
	size, err := v.int()
	if err != nil {
		return err
	}
	if n < 0 || size < 0 {
		return malformed("negative count %d %d", n, size)
	}
	if size == 0 && !v.binary {
		return nil
	}

	if v.binary {
		if err := v.restOfLine(); err != nil {
			return err
		}
		if head, _ := v.r.Peek(len("OFFSETS")); string(head) != "OFFSETS" {
			flat, err := v.payload(size, "int")
			if err != nil {
				return err
			}
			d.legacyCells = toInts(flat)
			return nil
		}
	}

	t, err := v.token()
	if err != nil {
		return err
	}
	if t != "OFFSETS" {
		first, err := strconv.Atoi(t)
		if err != nil {
			return malformed("expected cell size, got %q", t)
		}
		rest, err := v.values(size-1, "int")
		if err != nil {
			return err
		}
		d.legacyCells = append([]int{first}, toInts(rest)...)
		return nil
	}

	offType, err := v.token()
	if err != nil {
		return err
	}
	offsets, err := v.values(n, offType)
	if err != nil {
		return fmt.Errorf("OFFSETS: %w", err)
	}
	if kw, err := v.token(); err != nil || kw != "CONNECTIVITY" {
		return malformed("expected CONNECTIVITY, got %q", kw)
	}
	connType, err := v.token()
	if err != nil {
		return err
	}
	conn, err := v.values(size, connType)
	if err != nil {
		return fmt.Errorf("CONNECTIVITY: %w", err)
	}
	d.offsets, d.connectivity = toInts(offsets), toInts(conn)
	return nil
}

// target returns the field list of the current attribute section; data
// outside CELL_DATA/POINT_DATA is read and dropped.
func (d *decoder) target() *[]Field {
	switch d.section {
	case "CELL_DATA":
		return &d.cellData
	case "POINT_DATA":
		return &d.pointData
	default:
		return &[]Field{}
	}
}

func (d *decoder) count() int {
	if d.section == "CELL_DATA" {
		if d.dataset == "UNSTRUCTURED_GRID" {
			return len(d.cellTypes)
		}
		return (d.dims[0] - 1) * (d.dims[1] - 1) * (d.dims[2] - 1)
	}
	if d.dataset == "UNSTRUCTURED_GRID" || d.dataset == "STRUCTURED_GRID" {
		return len(d.points)
	}
	return d.dims[0] * d.dims[1] * d.dims[2]
}

func (d *decoder) readScalars() error {
	v := d.v
	name, err := v.token()
	if err != nil {
		return err
	}
	dataType, err := v.token()
	if err != nil {
		return err
	}
	components := 1
	if v.moreOnLine() {
		if components, err = v.int(); err != nil {
			return err
		}
	}
	if kw, err := v.token(); err != nil || kw != "LOOKUP_TABLE" {
		return malformed("expected LOOKUP_TABLE after SCALARS %s, got %q", name, kw)
	}
	if _, err := v.token(); err != nil {
		return err
	}
	values, err := v.values(d.count()*components, dataType)
	if err != nil {
		return fmt.Errorf("SCALARS %s: %w", name, err)
	}
	if components == 1 {
		dst := d.target()
		*dst = append(*dst, Field{Name: unescapeName(name), Values: values})
	}
	return nil
}

func (d *decoder) readFieldData() error {
	v := d.v
	if _, err := v.token(); err != nil { // field data name
		return err
	}
	arrays, err := v.int()
	if err != nil {
		return err
	}
	dst := d.target()
	for i := 0; i < arrays; i++ {
		name, err := v.token()
		if err != nil {
			return err
		}
		components, err := v.int()
		if err != nil {
			return err
		}
		tuples, err := v.int()
		if err != nil {
			return err
		}
		dataType, err := v.token()
		if err != nil {
			return err
		}
		values, err := v.values(components*tuples, dataType)
		if err != nil {
			return fmt.Errorf("FIELD array %s: %w", name, err)
		}
		if components == 1 {
			*dst = append(*dst, Field{Name: unescapeName(name), Values: values})
		}
	}
	return nil
}

func (d *decoder) skipAttribute(components int) error {
	if _, err := d.v.token(); err != nil {
		return err
	}
	dataType, err := d.v.token()
	if err != nil {
		return err
	}
	_, err = d.v.values(d.count()*components, dataType)
	return err
}

// skipMetadata consumes a METADATA block, which ends at the first blank line.
func (d *decoder) skipMetadata() error {
	if err := d.v.restOfLine(); err != nil {
		return err
	}
	for {
		l, err := d.v.line()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(l) == "" {
			return nil
		}
	}
}

func (d *decoder) build() (*Grid, error) {
	var (
		g   *Grid
		err error
	)
	switch d.dataset {
	case "STRUCTURED_GRID":
		g, err = NewStructured(d.dims, d.points)
	case "RECTILINEAR_GRID":
		g, err = NewRectilinear(d.axes[0], d.axes[1], d.axes[2])
	case "STRUCTURED_POINTS":
		g, err = NewImageData(d.dims, d.origin, d.spacing)
	case "UNSTRUCTURED_GRID":
		var cells []Cell
		if cells, err = d.cells(); err == nil {
			g, err = NewUnstructured(d.points, cells)
		}
	default:
		return nil, malformed("unsupported dataset %q", d.dataset)
	}
	if err != nil {
		return nil, err
	}
	for _, f := range d.cellData {
		if err := g.AddCellField(f.Name, f.Values); err != nil {
			return nil, err
		}
	}
	for _, f := range d.pointData {
		if err := g.AddPointField(f.Name, f.Values); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (d *decoder) cells() ([]Cell, error) {
	var conn [][]int
	if d.offsets != nil {
		for i := 0; i+1 < len(d.offsets); i++ {
			lo, hi := d.offsets[i], d.offsets[i+1]
			if lo < 0 || hi > len(d.connectivity) || lo > hi {
				return nil, malformed("cell offsets out of range")
			}
			conn = append(conn, d.connectivity[lo:hi])
		}
	} else {
		for i := 0; i < len(d.legacyCells); {
			k := d.legacyCells[i]
			if k < 0 || i+1+k > len(d.legacyCells) {
				return nil, malformed("truncated cell list")
			}
			conn = append(conn, d.legacyCells[i+1:i+1+k])
			i += 1 + k
		}
	}
	if len(conn) != len(d.cellTypes) {
		return nil, malformed("%d cells but %d cell types", len(conn), len(d.cellTypes))
	}
	cells := make([]Cell, len(conn))
	for i, ids := range conn {
		cells[i] = Cell{Type: CellType(d.cellTypes[i]), Points: ids}
	}
	return cells, nil
}

func unescapeName(name string) string {
	if !strings.Contains(name, "%") {
		return name
	}
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] == '%' && i+2 < len(name) {
			if b, err := strconv.ParseUint(name[i+1:i+3], 16, 8); err == nil {
				sb.WriteByte(byte(b))
				i += 2
				continue
			}
		}
		sb.WriteByte(name[i])
	}
	return sb.String()
}
