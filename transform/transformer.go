package transform

import (
	"context"
	"fmt"
	"time"

	"github.com/unixpickle/model3d/model3d"

	"github.com/hupe1980/vtkconverter/core"
	"github.com/hupe1980/vtkconverter/logging"
)

// Operation names used in results and logs.
const (
	OpTranslate = "translate"
	OpRotate    = "rotate"
	OpJoint     = "joint"
)

// Result describes a tally published by a transform.
type Result struct {
	Operation string
	Sources   []string
	Name      string
	Kind      core.GeometryKind
}

// Transformer derives new tallies and publishes them to a registry.
type Transformer struct {
	registry core.Registry
	engine   core.Engine
	logger   logging.Logger
}

// New creates a Transformer. A nil logger disables logging.
func New(registry core.Registry, engine core.Engine, logger logging.Logger) *Transformer {
	return &Transformer{registry: registry, engine: engine, logger: logging.OrNoOp(logger)}
}

// working is a private, mutable copy of a source tally.
type working struct {
	geometry core.Geometry
	ext      string
}

// prepare copies the source geometry, casting rectilinear grids to structured
// grids. Other kinds are rejected with an *core.UnsupportedGeometryKindError.
func (t *Transformer) prepare(src *core.MeshTally) (working, error) {
	_, ext := SplitExt(src.Name)
	switch src.Kind {
	case core.KindStructuredGrid, core.KindUnstructuredGrid:
		return working{geometry: src.CloneGeometry(), ext: ext}, nil
	case core.KindRectilinearGrid:
		g, err := t.engine.CastToStructuredGrid(src.Geometry())
		if err != nil {
			return working{}, fmt.Errorf("cast %s to StructuredGrid: %w", src.Name, err)
		}
		return working{geometry: g, ext: StructuredExt}, nil
	default:
		return working{}, &core.UnsupportedGeometryKindError{Name: src.Name, Kind: src.Kind}
	}
}

// Translate publishes a copy of name moved by (dx, dy, dz).
func (t *Transformer) Translate(ctx context.Context, name string, dx, dy, dz float64) (Result, error) {
	return t.apply(ctx, OpTranslate, name, func(src *core.MeshTally, w working) (string, error) {
		if err := w.geometry.Translate(model3d.XYZ(dx, dy, dz)); err != nil {
			return "", err
		}
		return TranslatedName(src.Name, dx, dy, dz, w.ext), nil
	})
}

// Rotate publishes a copy of name rotated about the x, then y, then z axis by
// rx, ry and rz degrees. All three rotations are applied even when zero.
func (t *Transformer) Rotate(ctx context.Context, name string, rx, ry, rz float64) (Result, error) {
	return t.apply(ctx, OpRotate, name, func(src *core.MeshTally, w working) (string, error) {
		if err := w.geometry.RotateX(rx); err != nil {
			return "", err
		}
		if err := w.geometry.RotateY(ry); err != nil {
			return "", err
		}
		if err := w.geometry.RotateZ(rz); err != nil {
			return "", err
		}
		return RotatedName(src.Name, rx, ry, rz, w.ext), nil
	})
}

func (t *Transformer) apply(
	ctx context.Context,
	op, name string,
	mutate func(src *core.MeshTally, w working) (string, error),
) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	release := t.registry.RLock(name)
	src, err := t.registry.Get(name)
	if err != nil {
		release()
		return Result{}, err
	}
	w, err := t.prepare(src)
	release()
	if err != nil {
		t.logger.Warn("Transform rejected", "operation", op, "mesh", name, "error", err.Error())
		return Result{}, err
	}
	newName, err := mutate(src, w)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", op, name, err)
	}
	return t.publish(op, []string{name}, newName, w.geometry, start)
}

// Joint publishes the merge of a and b as an unstructured grid.
func (t *Transformer) Joint(ctx context.Context, a, b string) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	// Source read locks are always taken in name order.
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	release := t.registry.RLock(first)
	if second != first {
		releaseFirst := release
		releaseSecond := t.registry.RLock(second)
		release = func() { releaseSecond(); releaseFirst() }
	}
	merged, err := t.merge(a, b)
	release()
	if err != nil {
		return Result{}, err
	}
	return t.publish(OpJoint, []string{a, b}, JointName(a, b), merged, start)
}

func (t *Transformer) merge(a, b string) (core.Geometry, error) {
	ma, err := t.registry.Get(a)
	if err != nil {
		return nil, err
	}
	mb, err := t.registry.Get(b)
	if err != nil {
		return nil, err
	}
	merged, err := t.engine.Merge(ma.Geometry(), mb.Geometry())
	if err != nil {
		return nil, fmt.Errorf("joint %s and %s: %w", a, b, err)
	}
	return merged, nil
}

// publish registers the derived tally while holding the write lock of its name.
func (t *Transformer) publish(op string, sources []string, name string, g core.Geometry, start time.Time) (Result, error) {
	m := core.NewMeshTally(name, g)
	release := t.registry.Lock(name)
	defer release()
	if err := t.registry.Put(m); err != nil {
		return Result{}, err
	}
	t.logger.Info("Transform applied", "operation", op, "sources", sources, "mesh", name, "duration", time.Since(start))
	return Result{Operation: op, Sources: sources, Name: name, Kind: m.Kind}, nil
}
