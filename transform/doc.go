// Package transform derives new mesh tallies from registered ones by rigid
// translation, rotation about the origin, or by joining two tallies.
//
// Every operation works on a deep copy of the source geometry and publishes
// the result under a new name built by the pure functions in naming.go; the
// source entry is never touched. Rectilinear grids are cast to structured
// grids before they are moved, and the derived name then ends in ".vts".
package transform
