// Package export encodes mesh tally fields into flat text formats consumed by
// visualization and CFD tools:
//
//   - point_cloud: "x, y, z, value" text, one file per field
//   - ip_fluent:   IP-Fluent interpolation profile, one file per field
//   - csv:         coordinates plus one column per field, one file in total
//
// Cell fields are written at the cell centers, point fields at the points.
// Coordinates are multiplied by the scale factor and values by the safety
// factor. Rows are streamed, so memory use does not grow with the mesh.
//
// Output files are written under a temporary name next to their final path
// and renamed into place once complete; a failed export leaves no partial file.
package export
