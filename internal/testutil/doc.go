// Package testutil contains helper builders and fixtures used across tests
// to reduce boilerplate when constructing grids and mesh tallies and writing
// them to disk. They are not intended for production usage.
package testutil
