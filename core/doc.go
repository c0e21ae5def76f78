// Package core provides the foundational domain types and contracts used by
// vtkconverter. It defines the core abstractions for:
//
//   - MeshTally (a grid plus the scalar fields attached to its cells or points)
//   - Domain classification of field names (cells, points or invalid)
//   - The Geometry / Engine contract every geometry backend must satisfy
//   - The Registry holding loaded tallies and the export scale/safety factors
//   - The typed error taxonomy shared by aggregation, transforms and exports
//
// The package keeps implementation concerns (file formats, geometry math,
// export encoders) out of scope, exposing small interfaces so that alternative
// geometry backends and registries can be plugged in.
package core
