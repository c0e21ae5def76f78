package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hupe1980/vtkconverter/core"
	"github.com/hupe1980/vtkconverter/logging"
)

// ErrNoFields is returned when an export names no field at all.
var ErrNoFields = errors.New("export: no fields requested")

// ProgressFunc receives the output path, the rows written so far and the
// total number of rows of the file being written.
type ProgressFunc func(path string, done, total int)

// Options configures an Exporter.
type Options struct {
	// Dir receives the output files. When empty, files are written next to
	// the mesh, i.e. at the path implied by its name.
	Dir string
	// Progress, when set, is called periodically while rows are streamed.
	Progress ProgressFunc
	// Logger defaults to a NoOpLogger.
	Logger logging.Logger
}

// Exporter writes mesh tally fields to files.
type Exporter struct {
	opts Options
}

// New creates an Exporter with optional overrides.
func New(optFns ...func(o *Options)) *Exporter {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Exporter{opts: opts}
}

type column struct {
	field  string
	domain core.Domain
	values []float64
}

// Export writes fields of m in the given format using factors, returning the
// paths written in order. Every field is validated before the first file is
// created: unknown fields fail with *core.UnknownFieldError and, for CSV,
// fields from different domains fail with *core.MixedFieldDomainError.
func (e *Exporter) Export(ctx context.Context, m *core.MeshTally, fields []string, format Format, factors core.Factors) ([]string, error) {
	if _, ok := formatTokens[format]; !ok {
		return nil, &core.InvalidFormatError{Token: format.String(), Allowed: Formats()}
	}
	cols, err := e.validate(m, fields, format)
	if err != nil {
		return nil, err
	}

	if format == CSV {
		path := e.path(m.Name, ListToken(fields), format)
		coords := m.Coordinates(cols[0].domain)
		values := make([][]float64, len(cols))
		for i, c := range cols {
			values[i] = c.values
		}
		err := e.write(ctx, path, format, len(coords), factors, func(s *stream) error {
			return writeCSV(s, coords, values)
		})
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	paths := make([]string, 0, len(cols))
	for _, c := range cols {
		path := e.path(m.Name, FieldToken(c.field), format)
		coords := m.Coordinates(c.domain)
		values := c.values
		rows := len(coords)
		fill := func(s *stream) error { return writePointCloud(s, coords, values) }
		if format == IPFluent {
			rows *= 4
			fill = func(s *stream) error { return writeIPFluent(s, m.Dimensionality, coords, values) }
		}
		if err := e.write(ctx, path, format, rows, factors, fill); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (e *Exporter) validate(m *core.MeshTally, fields []string, format Format) ([]column, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	cols := make([]column, len(fields))
	for i, f := range fields {
		values, domain, err := m.Values(f)
		if err != nil {
			return nil, err
		}
		if format == CSV && i > 0 && domain != cols[0].domain {
			return nil, &core.MixedFieldDomainError{First: fields[0], Expected: cols[0].domain, Field: f, Domain: domain}
		}
		if n := len(m.Coordinates(domain)); len(values) != n {
			return nil, fmt.Errorf("export: field %q has %d values for %d %s", f, len(values), n, domain)
		}
		cols[i] = column{field: f, domain: domain, values: values}
	}
	return cols, nil
}

func (e *Exporter) path(meshName, token string, format Format) string {
	name := OutputName(meshName, token, format)
	if e.opts.Dir == "" {
		return name
	}
	return filepath.Join(e.opts.Dir, filepath.Base(name))
}

func (e *Exporter) write(
	ctx context.Context,
	path string,
	format Format,
	rows int,
	factors core.Factors,
	fill func(s *stream) error,
) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return err
	}
	err := writeFile(path, func(w *bufio.Writer) error {
		s := &stream{ctx: ctx, w: w, factors: factors, buf: make([]byte, 0, 128)}
		if p := e.opts.Progress; p != nil {
			s.progress = func(done int) { p(path, done, rows) }
		}
		if err := fill(s); err != nil {
			return err
		}
		if s.progress != nil {
			s.progress(rows)
		}
		return nil
	})
	if err != nil {
		e.opts.Logger.Error("Export failed", "format", format.String(), "path", path, "error", err.Error())
		return err
	}
	e.opts.Logger.Info("Export completed", "format", format.String(), "path", path, "rows", rows, "duration", time.Since(start))
	return nil
}

