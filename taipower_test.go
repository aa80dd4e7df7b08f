package mapgrid_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-mapgrid"
)

func TestTaipowerCodec_Encode(t *testing.T) {
	codec := mapgrid.NewTaipowerCodec()
	for _, tc := range []struct {
		name     string
		point    mapgrid.Point
		expected string
		ok       bool
	}{
		{
			name:     "taipei",
			point:    mapgrid.Point{X: 309046, Y: 2768391},
			expected: "C7336-GD49",
			ok:       true,
		},
		{
			name:     "section_corner",
			point:    mapgrid.Point{X: 90000, Y: 2750000},
			expected: "A0000-AA00",
			ok:       true,
		},
		{
			name:     "section_far_corner",
			point:    mapgrid.Point{X: 329999.9, Y: 2799999.9},
			expected: "C9999-HE99",
			ok:       true,
		},
		{
			name:  "far_negative",
			point: mapgrid.Point{X: -1000000, Y: -1000000},
		},
		{
			name:  "outside_all_sections",
			point: mapgrid.Point{X: 0, Y: 0},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, ok := codec.Encode(tc.point)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestTaipowerCodec_Decode(t *testing.T) {
	codec := mapgrid.NewTaipowerCodec()
	for _, tc := range []struct {
		name     string
		text     string
		expected mapgrid.Point
	}{
		{
			name:     "canonical",
			text:     "C7336-GD49",
			expected: mapgrid.Point{X: 309045, Y: 2768395},
		},
		{
			name:     "lowercase_with_separators",
			text:     "c 7336 / gd 49",
			expected: mapgrid.Point{X: 309045, Y: 2768395},
		},
		{
			name:     "legacy_tenth_character_ignored",
			text:     "C7336-GD495",
			expected: mapgrid.Point{X: 309045, Y: 2768395},
		},
		{
			name:     "section_origin_cell",
			text:     "A0000-AA00",
			expected: mapgrid.Point{X: 90005, Y: 2750005},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := codec.Decode(tc.text)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestTaipowerCodec_DecodeErrors(t *testing.T) {
	codec := mapgrid.NewTaipowerCodec()
	for _, text := range []string{
		"",
		"C12",
		"Z1234-AB12",
		"C7336-XY49",
		"CAB36-GD49",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := codec.Decode(text)
			assert.True(t, errors.Is(err, mapgrid.ErrCannotHandle))
		})
	}
}

func TestTaipowerCodec_CentroidLaw(t *testing.T) {
	codec := mapgrid.NewTaipowerCodec()
	// Every point of the vision cell with corner (309040, 2768390)
	// decodes to the cell center, and re-encoding the center reproduces
	// the mask.
	for _, point := range []mapgrid.Point{
		{X: 309040, Y: 2768390},
		{X: 309046, Y: 2768391},
		{X: 309049.9, Y: 2768399.9},
	} {
		mask, ok := codec.Encode(point)
		assert.True(t, ok)
		decoded, err := codec.Decode(mask)
		assert.NoError(t, err)
		assert.Equal(t, mapgrid.Point{X: 309045, Y: 2768395}, decoded)
		remask, ok := codec.Encode(decoded)
		assert.True(t, ok)
		assert.Equal(t, mask, remask)
	}
}

func TestTaipowerCodec_EncodeAtZoom(t *testing.T) {
	codec := mapgrid.NewTaipowerCodec()
	point := mapgrid.Point{X: 309046, Y: 2768391}
	for _, tc := range []struct {
		zoom     int
		expected string
		ok       bool
	}{
		{zoom: 0},
		{zoom: 5},
		{zoom: 6, expected: "C", ok: true},
		{zoom: 9, expected: "C", ok: true},
		{zoom: 10, expected: "C7336", ok: true},
		{zoom: 12, expected: "C7336", ok: true},
		{zoom: 13, expected: "C7336-GD", ok: true},
		{zoom: 15, expected: "C7336-GD", ok: true},
		{zoom: 16, expected: "C7336-GD49", ok: true},
		{zoom: 18, expected: "C7336-GD49", ok: true},
	} {
		actual, ok := codec.EncodeAtZoom(point, tc.zoom)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.expected, actual)
	}

	_, ok := codec.EncodeAtZoom(mapgrid.Point{X: 0, Y: 0}, 16)
	assert.False(t, ok)
}
