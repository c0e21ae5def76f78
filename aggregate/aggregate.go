// Package aggregate computes integrals and averages of mesh tally fields.
// Cell fields are reported both plain and weighted by the absolute cell
// volume; point fields only plain. Sums run left to right in index order so
// results are reproducible bit for bit.
package aggregate

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/vtkconverter/core"
)

// Result holds the aggregates of one field. WeightedIntegral and
// WeightedAverage are only meaningful when Weighted is true (cell fields).
type Result struct {
	Field  string
	Domain core.Domain
	Count  int

	Integral float64
	Average  float64

	Weighted         bool
	WeightedIntegral float64
	WeightedAverage  float64
	TotalVolume      float64
}

// Aggregate computes the integral and average of field.
func Aggregate(m *core.MeshTally, field string) (Result, error) {
	values, domain, err := m.Values(field)
	if err != nil {
		return Result{}, err
	}

	res := Result{Field: field, Domain: domain, Count: len(values)}
	res.Integral = sum(values)
	res.Average = res.Integral / float64(len(values))
	if domain == core.DomainPoints {
		return res, nil
	}

	g := m.Geometry()
	weighted := make([]float64, len(values))
	volumes := make([]float64, len(values))
	for i, v := range values {
		volumes[i] = math.Abs(g.CellVolume(i))
		weighted[i] = v * volumes[i]
	}
	res.Weighted = true
	res.TotalVolume = sum(volumes)
	res.WeightedIntegral = sum(weighted)
	res.WeightedAverage = res.WeightedIntegral / res.TotalVolume
	return res, nil
}

// sum adds strictly left to right in index order.
func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// Stats extends Result with the value range of the field.
type Stats struct {
	Result
	Min float64
	Max float64
}

// Describe returns the range and aggregates of field.
func Describe(m *core.MeshTally, field string) (Stats, error) {
	res, err := Aggregate(m, field)
	if err != nil {
		return Stats{}, err
	}
	values, _, _ := m.Values(field)
	st := Stats{Result: res}
	if len(values) > 0 {
		st.Min = floats.Min(values)
		st.Max = floats.Max(values)
	}
	return st, nil
}
