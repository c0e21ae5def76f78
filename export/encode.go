package export

import (
	"bufio"
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/unixpickle/model3d/model3d"

	"github.com/hupe1980/vtkconverter/core"
)

// checkEvery is the number of rows between context checks and progress reports.
const checkEvery = 4096

// stream carries what every encoder needs besides its data.
type stream struct {
	ctx     context.Context
	w       *bufio.Writer
	factors core.Factors
	buf     []byte
	// progress is called with the number of rows written so far.
	progress func(done int)
}

func (s *stream) tick(done int) error {
	if done%checkEvery != 0 {
		return nil
	}
	if s.progress != nil {
		s.progress(done)
	}
	return s.ctx.Err()
}

// appendFixed renders v with three decimals. Non-finite values become nan,
// inf and -inf.
func appendFixed(b []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(b, "nan"...)
	case math.IsInf(v, 1):
		return append(b, "inf"...)
	case math.IsInf(v, -1):
		return append(b, "-inf"...)
	}
	return strconv.AppendFloat(b, v, 'f', 3, 64)
}

// writePointCloud writes the header line and one "x,y,z,value" row per point.
func writePointCloud(s *stream, coords []model3d.Coord3D, values []float64) error {
	if _, err := s.w.WriteString("x, y, z, value\n"); err != nil {
		return err
	}
	scale, safety := s.factors.Scale, s.factors.Safety
	for i, p := range coords {
		b := s.buf[:0]
		b = appendFixed(b, p.X*scale)
		b = append(b, ',')
		b = appendFixed(b, p.Y*scale)
		b = append(b, ',')
		b = appendFixed(b, p.Z*scale)
		b = append(b, ',')
		b = appendFixed(b, values[i]*safety)
		b = append(b, '\n')
		s.buf = b
		if _, err := s.w.Write(b); err != nil {
			return err
		}
		if err := s.tick(i + 1); err != nil {
			return err
		}
	}
	return nil
}

// writeIPFluent writes the five line preamble followed by the x, y, z and
// value blocks, each enclosed in parenthesis lines.
func writeIPFluent(s *stream, dimensionality int, coords []model3d.Coord3D, values []float64) error {
	preamble := "3\n" + strconv.Itoa(dimensionality) + "\n" + strconv.Itoa(len(coords)) + "\n1\nuds-0\n"
	if _, err := s.w.WriteString(preamble); err != nil {
		return err
	}
	scale, safety := s.factors.Scale, s.factors.Safety
	blocks := []func(i int) float64{
		func(i int) float64 { return coords[i].X * scale },
		func(i int) float64 { return coords[i].Y * scale },
		func(i int) float64 { return coords[i].Z * scale },
		func(i int) float64 { return values[i] * safety },
	}
	done := 0
	for _, at := range blocks {
		if _, err := s.w.WriteString("(\n"); err != nil {
			return err
		}
		for i := range coords {
			b := append(appendFixed(s.buf[:0], at(i)), '\n')
			s.buf = b
			if _, err := s.w.Write(b); err != nil {
				return err
			}
			done++
			if err := s.tick(done); err != nil {
				return err
			}
		}
		if _, err := s.w.WriteString(")\n"); err != nil {
			return err
		}
	}
	return nil
}

// writeCSV writes one CRLF terminated row per point: the three coordinates
// followed by one column per field. Every field but the first carries a
// leading space.
func writeCSV(s *stream, coords []model3d.Coord3D, columns [][]float64) error {
	scale, safety := s.factors.Scale, s.factors.Safety
	row := make([]string, 3+len(columns))
	for i, p := range coords {
		row[0] = string(appendFixed(nil, p.X*scale))
		row[1] = " " + string(appendFixed(nil, p.Y*scale))
		row[2] = " " + string(appendFixed(nil, p.Z*scale))
		for j, col := range columns {
			row[3+j] = " " + string(appendFixed(nil, col[i]*safety))
		}
		s.buf = appendCSVRow(s.buf[:0], row)
		if _, err := s.w.Write(s.buf); err != nil {
			return err
		}
		if err := s.tick(i + 1); err != nil {
			return err
		}
	}
	return nil
}

// appendCSVRow appends fields joined by commas and terminated by CRLF. Fields
// are quoted only when they contain a comma, a double quote, CR or LF;
// leading spaces do not trigger quoting.
func appendCSVRow(b []byte, fields []string) []byte {
	for i, f := range fields {
		if i > 0 {
			b = append(b, ',')
		}
		if !strings.ContainsAny(f, ",\"\r\n") {
			b = append(b, f...)
			continue
		}
		b = append(b, '"')
		b = append(b, strings.ReplaceAll(f, `"`, `""`)...)
		b = append(b, '"')
	}
	return append(b, '\r', '\n')
}
