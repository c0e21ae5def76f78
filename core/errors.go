package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is matched by every *UnknownFieldError.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownMesh is matched by every *UnknownMeshError.
	ErrUnknownMesh = errors.New("unknown mesh")
	// ErrMixedFieldDomain is matched by every *MixedFieldDomainError.
	ErrMixedFieldDomain = errors.New("mixed field domains")
	// ErrUnsupportedGeometryKind is matched by every *UnsupportedGeometryKindError.
	ErrUnsupportedGeometryKind = errors.New("unsupported geometry kind")
	// ErrInvalidFormat is matched by every *InvalidFormatError.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrAlreadyOpen is returned when a file is opened twice.
	ErrAlreadyOpen = errors.New("file is already open")
)

// UnknownFieldError reports a field present in neither the cell nor the point domain.
type UnknownFieldError struct {
	Mesh  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("invalid array name: %q is neither a cell nor a point array of %q", e.Field, e.Mesh)
}

// Is makes errors.Is(err, ErrUnknownField) succeed.
func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// UnknownMeshError reports a name missing from the registry.
type UnknownMeshError struct {
	Name string
}

func (e *UnknownMeshError) Error() string {
	return fmt.Sprintf("mesh %q is not open", e.Name)
}

// Is makes errors.Is(err, ErrUnknownMesh) succeed.
func (e *UnknownMeshError) Is(target error) bool { return target == ErrUnknownMesh }

// MixedFieldDomainError reports a CSV request spanning cell and point fields.
// Field is the first offender and Domain its classification; Expected is the
// domain of the first requested field.
type MixedFieldDomainError struct {
	First    string
	Expected Domain
	Field    string
	Domain   Domain
}

func (e *MixedFieldDomainError) Error() string {
	return fmt.Sprintf("all arrays must correspond to either cells or points: %q corresponds to %s and %q to %s",
		e.First, e.Expected, e.Field, e.Domain)
}

// Is makes errors.Is(err, ErrMixedFieldDomain) succeed.
func (e *MixedFieldDomainError) Is(target error) bool { return target == ErrMixedFieldDomain }

// UnsupportedGeometryKindError reports a transform requested on a grid kind
// other than structured, unstructured or rectilinear.
type UnsupportedGeometryKindError struct {
	Name string
	Kind GeometryKind
}

func (e *UnsupportedGeometryKindError) Error() string {
	return fmt.Sprintf("Mesh type must be either RectilinearGrid, StructuredGrid or UnstructuredGrid (%q is %s)", e.Name, e.Kind)
}

// Is makes errors.Is(err, ErrUnsupportedGeometryKind) succeed.
func (e *UnsupportedGeometryKindError) Is(target error) bool {
	return target == ErrUnsupportedGeometryKind
}

// InvalidFormatError reports an unrecognized format token.
type InvalidFormatError struct {
	Token   string
	Allowed []string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format %q, it must be one of %q", e.Token, e.Allowed)
}

// Is makes errors.Is(err, ErrInvalidFormat) succeed.
func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidFormat }
