package mapgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// A MaskCodec converts between projected points and compact alphanumeric
// grid-reference strings.
type MaskCodec interface {
	// Encode returns the grid reference of a projected point, or not-ok
	// if the point falls outside the grid.
	Encode(point Point) (string, bool)
	// EncodeAtZoom returns the grid reference truncated to the detail
	// appropriate for a map label at the given zoom level, or not-ok if
	// the point is outside the grid or the zoom is below the grid's
	// resolution.
	EncodeAtZoom(point Point, zoom int) (string, bool)
	// Decode returns the center of the finest grid cell named by text. It
	// returns ErrCannotHandle if text does not match the scheme.
	Decode(text string) (Point, error)
}

// Cell sizes of the Taipower grid hierarchy, in TWD67 TM2 meters.
const (
	sectionWidth  = 80000
	sectionHeight = 50000
	imageWidth    = 800
	imageHeight   = 500
	squareSize    = 100
	visionSize    = 10
)

const squareLetters = "ABCDEFGH"

// Southwest corner of the grid, the anchor every cell boundary is offset
// from. Not a multiple of the section size.
const (
	taipowerOriginX = 90000
	taipowerOriginY = 2450000
)

// sectionOrigins maps each of the 21 section letters (A-W, skipping I and
// S) to the southwest corner of its 80000x50000 section. Points outside
// every section are out of the grid's range.
var sectionOrigins = map[byte]Point{
	'A': {X: 90000, Y: 2750000},
	'B': {X: 170000, Y: 2750000},
	'C': {X: 250000, Y: 2750000},
	'D': {X: 90000, Y: 2700000},
	'E': {X: 170000, Y: 2700000},
	'F': {X: 250000, Y: 2700000},
	'G': {X: 90000, Y: 2650000},
	'H': {X: 170000, Y: 2650000},
	'J': {X: 250000, Y: 2650000},
	'K': {X: 90000, Y: 2600000},
	'L': {X: 170000, Y: 2600000},
	'M': {X: 250000, Y: 2600000},
	'N': {X: 90000, Y: 2550000},
	'O': {X: 170000, Y: 2550000},
	'P': {X: 250000, Y: 2550000},
	'Q': {X: 90000, Y: 2500000},
	'R': {X: 170000, Y: 2500000},
	'T': {X: 250000, Y: 2500000},
	'U': {X: 90000, Y: 2450000},
	'V': {X: 170000, Y: 2450000},
	'W': {X: 250000, Y: 2450000},
}

// A TaipowerCodec encodes projected TWD67 TM2 points into Taipower grid
// references of the form "C7336-GD49" and decodes such references back to
// the center of their 10x10 vision cell.
type TaipowerCodec struct{}

// NewTaipowerCodec returns a new TaipowerCodec.
func NewTaipowerCodec() *TaipowerCodec {
	return &TaipowerCodec{}
}

// Encode returns the grid reference of point, or not-ok if point falls in
// no section.
func (c *TaipowerCodec) Encode(point Point) (string, bool) {
	letter, local, ok := sectionFor(point)
	if !ok {
		return "", false
	}
	x, y := int(local.X), int(local.Y)
	return fmt.Sprintf("%c%02d%02d-%c%c%d%d",
		letter,
		x/imageWidth,
		y/imageHeight,
		squareLetters[x%imageWidth/squareSize],
		squareLetters[y%imageHeight/squareSize],
		x%squareSize/visionSize,
		y%squareSize/visionSize,
	), true
}

// EncodeAtZoom returns the grid reference of point truncated for display
// at the given zoom level.
func (c *TaipowerCodec) EncodeAtZoom(point Point, zoom int) (string, bool) {
	mask, ok := c.Encode(point)
	if !ok {
		return "", false
	}
	return truncateMask(mask, zoom)
}

// Decode returns the center of the vision cell named by text. Separators
// are stripped and letters uppercased before decoding; exactly the first
// nine significant characters are read.
func (c *TaipowerCodec) Decode(text string) (Point, error) {
	s := filterMask(text)
	if len(s) < 9 {
		return Point{}, fmt.Errorf("%w: %q", ErrCannotHandle, text)
	}
	s = s[:9]

	origin, ok := sectionOrigins[s[0]]
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrCannotHandle, text)
	}
	imageX, err := strconv.Atoi(s[1:3])
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrCannotHandle, text)
	}
	imageY, err := strconv.Atoi(s[3:5])
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrCannotHandle, text)
	}
	squareX := strings.IndexByte(squareLetters, s[5])
	squareY := strings.IndexByte(squareLetters, s[6])
	if squareX < 0 || squareY < 0 {
		return Point{}, fmt.Errorf("%w: %q", ErrCannotHandle, text)
	}
	visionX, visionY := int(s[7]-'0'), int(s[8]-'0')
	if visionX < 0 || visionX > 9 || visionY < 0 || visionY > 9 {
		return Point{}, fmt.Errorf("%w: %q", ErrCannotHandle, text)
	}

	// Decode targets the vision cell center, not its corner.
	return Point{
		X: origin.X + float64(imageX*imageWidth+squareX*squareSize+visionX*visionSize+visionSize/2),
		Y: origin.Y + float64(imageY*imageHeight+squareY*squareSize+visionY*visionSize+visionSize/2),
	}, nil
}

// sectionFor returns the section letter containing point and point's
// section-local coordinates.
func sectionFor(point Point) (byte, Point, bool) {
	for letter, origin := range sectionOrigins {
		dx, dy := point.X-origin.X, point.Y-origin.Y
		if 0 <= dx && dx < sectionWidth && 0 <= dy && dy < sectionHeight {
			return letter, Point{X: dx, Y: dy}, true
		}
	}
	return 0, Point{}, false
}

// truncateMask elides mask detail by zoom band: below 6 the grid is not
// shown at all, 6-9 shows the section letter, 10-12 adds the image
// digits, 13-15 adds the square letters, and 16 and above shows the full
// reference.
func truncateMask(mask string, zoom int) (string, bool) {
	switch {
	case zoom < 6:
		return "", false
	case zoom <= 9:
		return mask[:1], true
	case zoom <= 12:
		return mask[:5], true
	case zoom <= 15:
		return mask[:8], true
	default:
		return mask, true
	}
}

// filterMask keeps the ASCII letters and digits of s, uppercased.
func filterMask(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case '0' <= r && r <= '9', 'A' <= r && r <= 'Z':
			b.WriteRune(r)
		case 'a' <= r && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		}
	}
	return b.String()
}
