// Package registry contains the in-memory implementation of core.Registry.
//
// The canonical Registry interface lives in the core package to avoid
// dependency cycles. The store keeps mesh tallies for the lifetime of the
// process only; nothing is persisted, and every run starts from an empty
// registry with both export factors set to 1.
package registry
