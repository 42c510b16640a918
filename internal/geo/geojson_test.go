package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileIndented(t *testing.T) {
	f := geojson.NewFeature(orb.Point{1, 2})
	f.Properties["image_no"] = "A.tif"

	path := filepath.Join(t.TempDir(), "A.geojson")
	require.NoError(t, WriteFile(path, f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"type\": \"Feature\"")

	back, err := geojson.UnmarshalFeature(data)
	require.NoError(t, err)
	assert.Equal(t, "A.tif", back.Properties["image_no"])
	assert.Equal(t, orb.Point{1, 2}, back.Geometry)
}

func TestMarshalYAML(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))

	data, err := Marshal(fc, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: FeatureCollection")

	_, err = Marshal(fc, "xml")
	assert.Error(t, err)
}
