// Package grid is the built-in geometry engine of vtkconverter. It implements
// core.Geometry for structured, rectilinear, unstructured and image-data grids
// of 3-D cells, and core.Engine on top of the legacy VTK file format
// ("# vtk DataFile Version ..." files, ASCII or BINARY).
//
// Supported cell types are tetrahedra, voxels and hexahedra, which covers the
// mesh tallies produced by MCNP post-processors. Cell volumes are signed: an
// inverted hexahedron yields a negative volume.
package grid
