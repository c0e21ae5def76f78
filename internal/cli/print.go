package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/vtkconverter/aggregate"
	"github.com/hupe1980/vtkconverter/core"
)

func printInfo(w io.Writer, info core.Info) {
	b := info.Bounds
	d := info.Dimensions()
	fmt.Fprintf(w, "Mesh:        %s\n", info.Name)
	fmt.Fprintf(w, "Type:        %s\n", info.Kind)
	fmt.Fprintf(w, "Cells:       %d\n", info.NumCells)
	fmt.Fprintf(w, "Points:      %d\n", info.NumPoints)
	fmt.Fprintf(w, "Cell data:   %s\n", strings.Join(info.CellFields, ", "))
	fmt.Fprintf(w, "Point data:  %s\n", strings.Join(info.PointFields, ", "))
	fmt.Fprintf(w, "Bounds:      x [%g, %g]  y [%g, %g]  z [%g, %g]\n", b[0], b[1], b[2], b[3], b[4], b[5])
	fmt.Fprintf(w, "Dimensions:  %g x %g x %g\n", d[0], d[1], d[2])
	fmt.Fprintln(w)
}

func printStats(w io.Writer, st aggregate.Stats) {
	fmt.Fprintf(w, "Field:       %s (%s, %d values)\n", st.Field, st.Domain, st.Count)
	fmt.Fprintf(w, "Range:       [%g, %g]\n", st.Min, st.Max)
	fmt.Fprintf(w, "Integral:    %g\n", st.Integral)
	fmt.Fprintf(w, "Average:     %g\n", st.Average)
	if st.Weighted {
		fmt.Fprintf(w, "Volume:      %g\n", st.TotalVolume)
		fmt.Fprintf(w, "Integral*V:  %g\n", st.WeightedIntegral)
		fmt.Fprintf(w, "Average*V:   %g\n", st.WeightedAverage)
	}
	fmt.Fprintln(w)
}
