package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{&UnknownFieldError{Mesh: "m.vts", Field: "f"}, ErrUnknownField},
		{&UnknownMeshError{Name: "m.vts"}, ErrUnknownMesh},
		{&MixedFieldDomainError{First: "a", Expected: DomainCells, Field: "b", Domain: DomainPoints}, ErrMixedFieldDomain},
		{&UnsupportedGeometryKindError{Name: "m.vti", Kind: KindOther}, ErrUnsupportedGeometryKind},
		{&InvalidFormatError{Token: "xml", Allowed: []string{"csv"}}, ErrInvalidFormat},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("context: %w", tc.err)
		assert.True(t, errors.Is(wrapped, tc.sentinel), "%v", tc.err)
		for _, other := range cases {
			if other.sentinel != tc.sentinel {
				assert.False(t, errors.Is(tc.err, other.sentinel), "%v is %v", tc.err, other.sentinel)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	err := &MixedFieldDomainError{First: "a", Expected: DomainCells, Field: "b", Domain: DomainPoints}
	assert.Equal(t, `all arrays must correspond to either cells or points: "a" corresponds to cells and "b" to points`, err.Error())

	kind := &UnsupportedGeometryKindError{Name: "m.vti", Kind: KindOther}
	assert.Contains(t, kind.Error(), "Mesh type must be either RectilinearGrid, StructuredGrid or UnstructuredGrid")
}

func TestBoundsExtent(t *testing.T) {
	b := Bounds{-1, 1, 0, 3, 2, 2}
	assert.Equal(t, [3]float64{2, 3, 0}, b.Extent())
}
