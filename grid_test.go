package mapgrid_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-mapgrid"
)

func newTestGenerator(t testing.TB) *mapgrid.Generator {
	registry, err := mapgrid.NewRegistry()
	assert.NoError(t, err)
	return mapgrid.NewGenerator(registry)
}

func TestGenerator_Generate_Geographic(t *testing.T) {
	generator := newTestGenerator(t)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121, Y: 24},
		NorthEast: mapgrid.Point{X: 123, Y: 26},
	}

	features, err := generator.Generate(bounds, 6, mapgrid.WGS84)
	assert.NoError(t, err)
	assert.Equal(t, []mapgrid.GridLine{
		{Start: mapgrid.Point{X: 121, Y: 24}, End: mapgrid.Point{X: 123, Y: 24}, Label: "24度"},
		{Start: mapgrid.Point{X: 121, Y: 25}, End: mapgrid.Point{X: 123, Y: 25}, Label: "25度"},
		{Start: mapgrid.Point{X: 121, Y: 24}, End: mapgrid.Point{X: 121, Y: 26}, Label: "121度"},
		{Start: mapgrid.Point{X: 122, Y: 24}, End: mapgrid.Point{X: 122, Y: 26}, Label: "122度"},
	}, features.Lines)
	assert.Equal(t, 0, len(features.Markers))
}

func TestGenerator_Generate_GeographicLabels(t *testing.T) {
	generator := newTestGenerator(t)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121, Y: 24},
		NorthEast: mapgrid.Point{X: 123, Y: 26},
	}

	// Half-degree spacing: whole degrees label as "121度", halves as
	// "121度30分" with the trailing zero component stripped.
	features, err := generator.Generate(bounds, 7, mapgrid.WGS84)
	assert.NoError(t, err)
	assert.Equal(t, 8, len(features.Lines))
	labels := make(map[string]bool)
	for _, line := range features.Lines {
		labels[line.Label] = true
	}
	assert.True(t, labels["121度30分"])
	assert.True(t, labels["122度"])
	assert.True(t, labels["24度30分"])
}

func TestGenerator_Generate_Monotonic(t *testing.T) {
	generator := newTestGenerator(t)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121, Y: 25},
		NorthEast: mapgrid.Point{X: 121.01, Y: 25.01},
	}

	previous := 0
	for zoom := 0; zoom <= 18; zoom++ {
		features, err := generator.Generate(bounds, zoom, mapgrid.WGS84)
		assert.NoError(t, err)
		assert.True(t, len(features.Lines) >= previous)
		previous = len(features.Lines)
	}
}

func TestGenerator_Generate_DegenerateBounds(t *testing.T) {
	generator := newTestGenerator(t)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121, Y: 25},
		NorthEast: mapgrid.Point{X: 121, Y: 25},
	}

	features, err := generator.Generate(bounds, 12, mapgrid.WGS84)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(features.Lines))
	assert.Equal(t, 0, len(features.Markers))
}

func TestGenerator_Generate_LineCap(t *testing.T) {
	generator := newTestGenerator(t)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: -179, Y: -80},
		NorthEast: mapgrid.Point{X: 179, Y: 80},
	}

	// Arc-second spacing over the whole world would be unbounded work;
	// the generator yields nothing instead.
	features, err := generator.Generate(bounds, 18, mapgrid.WGS84)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(features.Lines))
}

func TestGenerator_Generate_TaipowerZoomGating(t *testing.T) {
	generator := newTestGenerator(t)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121.0, Y: 24.8},
		NorthEast: mapgrid.Point{X: 121.9, Y: 25.2},
	}

	// Below zoom 6 the grid is not drawn at all.
	features, err := generator.Generate(bounds, 5, mapgrid.Taipower)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(features.Lines))
	assert.Equal(t, 0, len(features.Markers))

	// At zoom 6 the grid resolves to section granularity: the section
	// boundaries at x=250000, x=330000 and y=2750000 cross this bound,
	// and each visible section is marked with its letter.
	features, err = generator.Generate(bounds, 6, mapgrid.Taipower)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(features.Lines))
	for _, line := range features.Lines {
		assert.Equal(t, "", line.Label)
	}
	markerLabels := make([]string, 0, len(features.Markers))
	for _, marker := range features.Markers {
		markerLabels = append(markerLabels, marker.Label)
	}
	assert.Equal(t, []string{"E", "B", "F", "C"}, markerLabels)
}

func TestGenerator_Generate_TaipowerCellCenters(t *testing.T) {
	registry, err := mapgrid.NewRegistry()
	assert.NoError(t, err)
	generator := mapgrid.NewGenerator(registry)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121.5855, Y: 25.0230},
		NorthEast: mapgrid.Point{X: 121.5859, Y: 25.0234},
	}

	// At zoom 16 each marker carries a full grid reference. Decoding a
	// marker's own label must yield the cell center the marker sits on:
	// the marker lattice is the grid's cell lattice, not an arbitrary one.
	features, err := generator.Generate(bounds, 16, mapgrid.Taipower)
	assert.NoError(t, err)
	assert.True(t, len(features.Markers) > 0)
	codec := mapgrid.Taipower.MaskCodec()
	for _, marker := range features.Markers {
		center, err := codec.Decode(marker.Label)
		assert.NoError(t, err)
		remask, ok := codec.Encode(center)
		assert.True(t, ok)
		assert.Equal(t, marker.Label, remask)
		at, err := registry.Convert(center, mapgrid.Taipower, mapgrid.WGS84)
		assert.NoError(t, err)
		assert.Equal(t, marker.At, at)
	}
}

func TestGenerator_Generate_Linear(t *testing.T) {
	generator := newTestGenerator(t)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121.58, Y: 25.02},
		NorthEast: mapgrid.Point{X: 121.59, Y: 25.03},
	}

	features, err := generator.Generate(bounds, 18, mapgrid.TWD97)
	assert.NoError(t, err)
	assert.True(t, len(features.Lines) > 0)
	for _, line := range features.Lines {
		assert.NotEqual(t, "", line.Label)
	}
}

func BenchmarkGenerator_Generate(b *testing.B) {
	generator := newTestGenerator(b)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: 121.5, Y: 25.0},
		NorthEast: mapgrid.Point{X: 121.7, Y: 25.1},
	}
	b.ResetTimer()
	for range b.N {
		features, err := generator.Generate(bounds, 12, mapgrid.WGS84)
		assert.NoError(b, err)
		assert.True(b, len(features.Lines) > 0)
	}
}
