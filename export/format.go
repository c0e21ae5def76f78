package export

import (
	"github.com/hupe1980/vtkconverter/core"
)

// Format selects an output encoding.
type Format int

const (
	// PointCloud writes "x, y, z, value" text files.
	PointCloud Format = iota + 1
	// IPFluent writes IP-Fluent profile files.
	IPFluent
	// CSV writes one comma separated file covering every requested field.
	CSV
)

var formatTokens = map[Format]string{
	PointCloud: "point_cloud",
	IPFluent:   "ip_fluent",
	CSV:        "csv",
}

// Formats lists the accepted format tokens.
func Formats() []string {
	return []string{formatTokens[PointCloud], formatTokens[IPFluent], formatTokens[CSV]}
}

// ParseFormat maps a token such as "point_cloud" to its Format.
func ParseFormat(token string) (Format, error) {
	for f, t := range formatTokens {
		if t == token {
			return f, nil
		}
	}
	return 0, &core.InvalidFormatError{Token: token, Allowed: Formats()}
}

// String returns the format token, which is also used in output file names.
func (f Format) String() string {
	if t, ok := formatTokens[f]; ok {
		return t
	}
	return "unknown"
}

// Ext returns the output file extension without the dot.
func (f Format) Ext() string {
	if f == CSV {
		return "csv"
	}
	return "txt"
}
