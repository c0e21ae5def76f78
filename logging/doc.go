// Package logging provides a minimal logging interface and adapters for vtkconverter.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the registry, transformer and exporter use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ConverterLogger with component, mesh and custom context attributes
//   - NoOpLogger for silent operation (testing, library embedding)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	conv := vtkconverter.New(func(o *vtkconverter.Options) { o.Logger = logger })
//
// Arguments after the message are slog style key/value pairs.
package logging
