// Package mapgrid implements the coordinate and grid core of an
// interactive map: coordinate reference system conversion, human-readable
// angle formatting, the Taipower alphanumeric grid-reference codec, and a
// zoom-adaptive grid line generator.
package mapgrid

import "errors"

var (
	// ErrUnresolvableCRS is returned when a CRS definition cannot be
	// resolved by the projection engine.
	ErrUnresolvableCRS = errors.New("unresolvable CRS")
	// ErrTransform is returned when a transform pipeline cannot be built
	// or applied.
	ErrTransform = errors.New("transform failed")
	// ErrInvalidAngle is returned when neither the input text nor the
	// fallback parses as a number.
	ErrInvalidAngle = errors.New("invalid angle")
	// ErrCannotHandle is returned when a grid reference string does not
	// match the expected scheme.
	ErrCannotHandle = errors.New("cannot handle grid reference")
)

// A Point is an ordered coordinate pair. Whether X and Y are
// longitude/latitude degrees or projected meters is determined by the CRS
// the point is expressed in; the type itself carries no CRS tag.
type Point struct {
	X float64
	Y float64
}

// ValidGeographic reports whether p is a valid longitude/latitude point,
// exclusive of the poles and the antimeridian.
func (p Point) ValidGeographic() bool {
	return -180 < p.X && p.X < 180 && -90 < p.Y && p.Y < 90
}

// A Bounds is a rectangular geographic bound in longitude/latitude
// degrees.
type Bounds struct {
	SouthWest Point
	NorthEast Point
}

// IsDegenerate reports whether b has no area.
func (b Bounds) IsDegenerate() bool {
	return b.SouthWest.X >= b.NorthEast.X || b.SouthWest.Y >= b.NorthEast.Y
}

// A Notation selects a textual representation of a coordinate.
type Notation int

const (
	NotationDecimal Notation = iota
	NotationDegreeMinute
	NotationDegreeMinuteSecond
	NotationGridMask
	NotationRawXY
)

// String returns the notation name.
func (n Notation) String() string {
	switch n {
	case NotationDecimal:
		return "decimal"
	case NotationDegreeMinute:
		return "degree-minute"
	case NotationDegreeMinuteSecond:
		return "degree-minute-second"
	case NotationGridMask:
		return "grid-mask"
	case NotationRawXY:
		return "raw-xy"
	default:
		return "unknown"
	}
}

// NotationsFor returns the notations offered for crs. Geographic systems
// are displayed as angles, masked systems as grid references, and all
// other projected systems as raw coordinate pairs.
func NotationsFor(crs *CRS) []Notation {
	switch {
	case crs.IsGeographic():
		return []Notation{NotationDecimal, NotationDegreeMinute, NotationDegreeMinuteSecond}
	case crs.SupportsMask():
		return []Notation{NotationGridMask}
	default:
		return []Notation{NotationRawXY}
	}
}
