package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vtkconverter/core"
)

func TestParseFormat(t *testing.T) {
	for _, token := range Formats() {
		f, err := ParseFormat(token)
		require.NoError(t, err)
		assert.Equal(t, token, f.String())
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, core.ErrInvalidFormat)
	assert.Equal(t, "unknown", Format(0).String())
}

func TestFormatExt(t *testing.T) {
	assert.Equal(t, "txt", PointCloud.Ext())
	assert.Equal(t, "txt", IPFluent.Ext())
	assert.Equal(t, "csv", CSV.Ext())
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "data/example_Values_point_cloud.txt",
		OutputName("data/example.vts", FieldToken("Values"), PointCloud))
	assert.Equal(t, "data/example_Value - Total_ip_fluent.txt",
		OutputName("data/example.vts", FieldToken("Value - Total"), IPFluent))
	assert.Equal(t, "m_a-b_point_cloud.txt", OutputName("m.vtk", FieldToken("a/b"), PointCloud))
	assert.Equal(t, "_v_csv.csv", OutputName(".vtk", "v", CSV))
}

func TestListToken(t *testing.T) {
	assert.Equal(t, "['Values']", ListToken([]string{"Values"}))
	assert.Equal(t, "['Value - Total', 'Error']", ListToken([]string{"Value - Total", "Error"}))
	assert.Equal(t, "['a-b']", ListToken([]string{"a/b"}))
	assert.Equal(t, `["it's"]`, ListToken([]string{"it's"}))
	assert.Equal(t, `['both \' and "']`, ListToken([]string{`both ' and "`}))
	assert.Equal(t, "[]", ListToken(nil))
}
