// Package vtkconverter provides a high-level façade over the mesh tally
// registry, the geometry engine, the transformer and the exporter. Most
// applications interact with this package by:
//  1. Creating a Converter via New() (optionally overriding the default
//     in-memory registry and the in-repo VTK engine)
//  2. Opening one or more VTK files (Open)
//  3. Deriving new tallies (Translate, Rotate, Joint), inspecting them
//     (Info, Aggregate, Describe) and exporting fields (Write, Save)
//
// Every operation is safe for concurrent use. Operations on the same tally
// name are serialized through the registry's per-name locks.
package vtkconverter

import (
	"context"
	"fmt"

	"github.com/hupe1980/vtkconverter/aggregate"
	"github.com/hupe1980/vtkconverter/core"
	"github.com/hupe1980/vtkconverter/export"
	"github.com/hupe1980/vtkconverter/grid"
	"github.com/hupe1980/vtkconverter/logging"
	"github.com/hupe1980/vtkconverter/registry"
	"github.com/hupe1980/vtkconverter/transform"
)

// Save modes accepted by Converter.Save.
const (
	SaveBinary = "binary"
	SaveASCII  = "ascii"
)

// Options configures the Converter instance.
type Options struct {
	// Registry holds the open tallies and the export factors (defaults to an
	// in-memory store).
	Registry core.Registry
	// Engine loads, casts, merges and saves geometry (defaults to the legacy
	// VTK engine of package grid).
	Engine core.Engine

	// OutputDir receives exported files. When empty, files are written next
	// to the tally they were derived from.
	OutputDir string
	// Progress is reported while export rows are streamed.
	Progress export.ProgressFunc

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Converter is the high-level façade aggregating registry, engine,
// transformer and exporter.
type Converter struct {
	opts        Options
	transformer *transform.Transformer
	exporter    *export.Exporter
}

// New creates a new Converter with optional overrides.
func New(optFns ...func(o *Options)) *Converter {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Registry == nil {
		opts.Registry = registry.NewInMemoryStore()
	}
	if opts.Engine == nil {
		opts.Engine = grid.NewEngine(opts.Logger)
	}

	ex := export.New(func(o *export.Options) {
		o.Dir = opts.OutputDir
		o.Progress = opts.Progress
		o.Logger = opts.Logger
	})

	return &Converter{
		opts:        opts,
		transformer: transform.New(opts.Registry, opts.Engine, opts.Logger),
		exporter:    ex,
	}
}

// Registry returns the registry backing the converter.
func (c *Converter) Registry() core.Registry { return c.opts.Registry }

// Open loads path through the engine and registers it under its path.
// Opening a name that is already registered fails with core.ErrAlreadyOpen.
func (c *Converter) Open(ctx context.Context, path string) (*core.MeshTally, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := c.opts.Registry.Lock(path)
	defer unlock()

	if c.opts.Registry.Has(path) {
		return nil, fmt.Errorf("open %s: %w", path, core.ErrAlreadyOpen)
	}

	g, err := c.opts.Engine.Load(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	m := core.NewMeshTally(path, g)
	if err := c.opts.Registry.Put(m); err != nil {
		return nil, err
	}

	c.opts.Logger.Info("Mesh opened",
		"mesh", path, "kind", m.Kind.String(), "cells", m.NumCells(), "points", m.NumPoints())

	return m, nil
}

// Names returns the open tally names in the order they were registered.
func (c *Converter) Names() []string { return c.opts.Registry.Names() }

// Info returns descriptive attributes of the named tally.
func (c *Converter) Info(name string) (core.Info, error) {
	unlock := c.opts.Registry.RLock(name)
	defer unlock()

	m, err := c.opts.Registry.Get(name)
	if err != nil {
		return core.Info{}, err
	}
	return m.Info(), nil
}

// Aggregate returns the integral and average of field on the named tally.
func (c *Converter) Aggregate(name, field string) (aggregate.Result, error) {
	unlock := c.opts.Registry.RLock(name)
	defer unlock()

	m, err := c.opts.Registry.Get(name)
	if err != nil {
		return aggregate.Result{}, err
	}
	return aggregate.Aggregate(m, field)
}

// Describe returns the aggregates of field together with its extrema.
func (c *Converter) Describe(name, field string) (aggregate.Stats, error) {
	unlock := c.opts.Registry.RLock(name)
	defer unlock()

	m, err := c.opts.Registry.Get(name)
	if err != nil {
		return aggregate.Stats{}, err
	}
	return aggregate.Describe(m, field)
}

// Translate publishes a translated copy of the named tally.
func (c *Converter) Translate(ctx context.Context, name string, dx, dy, dz float64) (transform.Result, error) {
	return c.transformer.Translate(ctx, name, dx, dy, dz)
}

// Rotate publishes a copy of the named tally rotated about x, then y, then z.
// Angles are in degrees.
func (c *Converter) Rotate(ctx context.Context, name string, rx, ry, rz float64) (transform.Result, error) {
	return c.transformer.Rotate(ctx, name, rx, ry, rz)
}

// Joint publishes the union of two tallies as an unstructured grid.
func (c *Converter) Joint(ctx context.Context, a, b string) (transform.Result, error) {
	return c.transformer.Joint(ctx, a, b)
}

// Write exports fields of the named tally in the format given by token
// ("point_cloud", "ip_fluent" or "csv") and returns the written paths. The
// export factors are read once when the export starts.
func (c *Converter) Write(ctx context.Context, name string, fields []string, token string) ([]string, error) {
	format, err := export.ParseFormat(token)
	if err != nil {
		return nil, err
	}

	unlock := c.opts.Registry.RLock(name)
	defer unlock()

	m, err := c.opts.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	return c.exporter.Export(ctx, m, fields, format, c.opts.Registry.Factors())
}

// Save writes the named tally back to a VTK file at its own name, in binary
// or ascii mode.
func (c *Converter) Save(ctx context.Context, name, mode string) error {
	var binary bool
	switch mode {
	case SaveBinary:
		binary = true
	case SaveASCII:
	default:
		return &core.InvalidFormatError{Token: mode, Allowed: []string{SaveBinary, SaveASCII}}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock := c.opts.Registry.RLock(name)
	defer unlock()

	m, err := c.opts.Registry.Get(name)
	if err != nil {
		return err
	}
	if err := c.opts.Engine.Save(m.Geometry(), name, binary); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	c.opts.Logger.Info("Mesh saved", "mesh", name, "mode", mode)
	return nil
}

// SetScaleFactor sets the coordinate multiplier applied by later exports.
func (c *Converter) SetScaleFactor(f float64) { c.opts.Registry.SetScaleFactor(f) }

// SetSafetyFactor sets the value multiplier applied by later exports.
func (c *Converter) SetSafetyFactor(f float64) { c.opts.Registry.SetSafetyFactor(f) }

// Factors returns the current export factors.
func (c *Converter) Factors() core.Factors { return c.opts.Registry.Factors() }
