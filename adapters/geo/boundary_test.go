package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const featureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "Soweto"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [
          [[27.80, -26.30], [27.95, -26.30], [27.95, -26.20], [27.80, -26.20], [27.80, -26.30]]
        ]
      }
    }
  ]
}`

func TestParseBoundaryFeatureCollection(t *testing.T) {
	boundary, err := ParseBoundary([]byte(featureCollection))
	require.NoError(t, err)
	require.NotNil(t, boundary)

	assert.Equal(t, "Soweto", boundary.Name)
	require.Len(t, boundary.Rings, 1)
	require.Len(t, boundary.Rings[0], 5)
	assert.Equal(t, 27.80, boundary.Rings[0][0].Lon)
	assert.Equal(t, -26.30, boundary.Rings[0][0].Lat)
}

func TestParseBoundaryMultiPolygon(t *testing.T) {
	doc := `{
	  "type": "MultiPolygon",
	  "coordinates": [
	    [[[0,0],[1,0],[1,1],[0,0]]],
	    [[[2,2],[3,2],[3,3],[2,2]]]
	  ]
	}`
	boundary, err := ParseBoundary([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, boundary.Rings, 2)
}

func TestParseBoundaryRejectsGarbage(t *testing.T) {
	_, err := ParseBoundary([]byte("not json at all"))
	assert.Error(t, err)

	_, err = ParseBoundary([]byte(`{"type": "Point", "coordinates": [1, 2]}`))
	assert.Error(t, err)

	_, err = ParseBoundary([]byte(`{"type": "FeatureCollection", "features": []}`))
	assert.Error(t, err)
}

func TestReadBoundaryMissingFileIsNotAnError(t *testing.T) {
	boundary, err := ReadBoundary(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.NoError(t, err)
	assert.Nil(t, boundary)

	boundary, err = ReadBoundary("")
	assert.NoError(t, err)
	assert.Nil(t, boundary)
}

func TestReadBoundaryFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boundary.geojson")
	require.NoError(t, os.WriteFile(path, []byte(featureCollection), 0o644))

	boundary, err := ReadBoundary(path)
	require.NoError(t, err)
	require.NotNil(t, boundary)
	assert.Equal(t, "Soweto", boundary.Name)
}
