package transform

import (
	"fmt"
	"strconv"
)

// extLen is the length of the ".vtk"-style extension carried by mesh names.
const extLen = 4

// StructuredExt is the extension of tallies converted to structured grids.
const StructuredExt = ".vts"

// UnstructuredExt is the extension of joined tallies.
const UnstructuredExt = ".vtu"

// SplitExt splits name into its stem and its trailing four character
// extension. Names shorter than the extension have an empty stem.
func SplitExt(name string) (stem, ext string) {
	if len(name) < extLen {
		return "", name
	}
	return name[:len(name)-extLen], name[len(name)-extLen:]
}

// Stem returns name without its trailing four character extension.
func Stem(name string) string {
	stem, _ := SplitExt(name)
	return stem
}

// FormatParam renders a parameter in its shortest exact decimal form.
func FormatParam(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DerivedName inserts "+tag(a,b,c)" between the stem of original and ext.
func DerivedName(original, tag string, params [3]float64, ext string) string {
	return fmt.Sprintf("%s+%s(%s,%s,%s)%s", Stem(original), tag,
		FormatParam(params[0]), FormatParam(params[1]), FormatParam(params[2]), ext)
}

// TranslatedName names the result of translating original by (dx, dy, dz).
func TranslatedName(original string, dx, dy, dz float64, ext string) string {
	return DerivedName(original, "Trans", [3]float64{dx, dy, dz}, ext)
}

// RotatedName names the result of rotating original by (rx, ry, rz) degrees.
func RotatedName(original string, rx, ry, rz float64, ext string) string {
	return DerivedName(original, "Rot", [3]float64{rx, ry, rz}, ext)
}

// JointName names the merge of a and b.
func JointName(a, b string) string {
	return Stem(a) + "+" + Stem(b) + UnstructuredExt
}
