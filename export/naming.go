package export

import (
	"strings"
)

// extLen is the length of the trailing extension stripped from mesh names.
const extLen = 4

// OutputName builds "{stem}_{token}_{format}.{ext}" where stem is meshName
// without its trailing four character extension.
func OutputName(meshName, token string, f Format) string {
	stem := ""
	if len(meshName) > extLen {
		stem = meshName[:len(meshName)-extLen]
	}
	return stem + "_" + token + "_" + f.String() + "." + f.Ext()
}

// FieldToken renders a single field name for use in a file name.
func FieldToken(field string) string {
	return strings.ReplaceAll(field, "/", "-")
}

// ListToken renders a list of field names as a bracketed, quoted list, e.g.
// "['Value - Total', 'Error']", for use in a CSV file name.
func ListToken(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quote(f)
	}
	return strings.ReplaceAll("["+strings.Join(quoted, ", ")+"]", "/", "-")
}

// quote wraps s in single quotes, switching to double quotes when s holds a
// single quote but no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == q || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte(q)
	return sb.String()
}
