package mapgrid

import (
	"fmt"
	"math"
	"strconv"
)

// A GridLine is a grid line segment with geographic endpoints and an
// optional label.
type GridLine struct {
	Start Point
	End   Point
	Label string
}

// A GridMarker is a labeled point at the geographic center of a grid
// cell.
type GridMarker struct {
	At    Point
	Label string
}

// GridFeatures is the set of features to draw for one grid generation
// call. Features are built fresh on every call and never cached.
type GridFeatures struct {
	Lines   []GridLine
	Markers []GridMarker
}

// Caps on the work done by a single Generate call. A bound/spacing
// combination beyond these yields an empty result, the same contract as
// an invalid zoom.
const (
	maxLineSteps   = 512
	maxCellMarkers = 4096
)

// A spacingAdapter is a per-CRS-kind policy mapping zoom level to grid
// line spacing in the CRS's native units. Lines and cells are stepped
// from origin, so schemes whose cell boundaries are not multiples of the
// spacing still get lines on their true cell edges.
type spacingAdapter interface {
	valid(zoom int) bool
	spacing(zoom int) (float64, float64)
	origin() (float64, float64)
}

// degreeSpacings is the geographic spacing table, from 90 degrees at zoom
// 0 down to one arc-second at zoom 18. Each entry divides the one before
// it, so a finer grid always contains the coarser grid's lines.
var degreeSpacings = []float64{
	90, 45, 15, 15, 5, 1, 1,
	1.0 / 2, 1.0 / 6, 1.0 / 12, 1.0 / 12, 1.0 / 60,
	1.0 / 120, 1.0 / 120, 1.0 / 360, 1.0 / 720, 1.0 / 720,
	1.0 / 3600, 1.0 / 3600,
}

type geographicSpacing struct{}

func (geographicSpacing) valid(zoom int) bool {
	return zoom >= 0
}

func (geographicSpacing) spacing(zoom int) (float64, float64) {
	s := degreeSpacings[clamp(zoom, 0, len(degreeSpacings)-1)]
	return s, s
}

func (geographicSpacing) origin() (float64, float64) {
	return 0, 0
}

// meterSpacings is the linear spacing table for zooms 7 to 18, from
// 100000 down to 20 native units. As with degreeSpacings, each entry
// divides the one before it.
var meterSpacings = []float64{
	100000, 50000, 10000, 10000, 5000, 1000,
	1000, 500, 100, 100, 20, 20,
}

type linearSpacing struct{}

func (linearSpacing) valid(zoom int) bool {
	return zoom >= 0
}

func (linearSpacing) spacing(zoom int) (float64, float64) {
	s := meterSpacings[clamp(zoom-7, 0, len(meterSpacings)-1)]
	return s, s
}

func (linearSpacing) origin() (float64, float64) {
	return 0, 0
}

// taipowerSpacing follows the grid's fixed cell hierarchy: sections at
// zooms 6-9, images at 10-12, squares at 13-15, vision cells at 16 and
// above. Below zoom 6 spacing would resolve to coarser than the scheme
// defines, so the grid is not drawn at all. The lattice anchors at the
// grid's southwest corner: section X boundaries sit at 90000+k*80000,
// not at multiples of 80000.
type taipowerSpacing struct{}

func (taipowerSpacing) valid(zoom int) bool {
	return zoom >= 6
}

func (taipowerSpacing) spacing(zoom int) (float64, float64) {
	switch {
	case zoom <= 9:
		return sectionWidth, sectionHeight
	case zoom <= 12:
		return imageWidth, imageHeight
	case zoom <= 15:
		return squareSize, squareSize
	default:
		return visionSize, visionSize
	}
}

func (taipowerSpacing) origin() (float64, float64) {
	return taipowerOriginX, taipowerOriginY
}

func spacingAdapterFor(crs *CRS) spacingAdapter {
	switch crs.Kind() {
	case KindGeographic:
		return geographicSpacing{}
	case KindTaipowerGrid, KindTaipowerGridWithLandmarks:
		return taipowerSpacing{}
	default:
		return linearSpacing{}
	}
}

// A Generator produces the grid lines and labels to draw over a visible
// map bound.
type Generator struct {
	registry *Registry
}

// NewGenerator returns a new Generator converting through registry.
func NewGenerator(registry *Registry) *Generator {
	return &Generator{
		registry: registry,
	}
}

// Generate returns the grid features for the given geographic bound, zoom
// level and CRS. Line endpoints and marker positions are geographic
// coordinates; the active CRS's native coordinates are internal working
// values only. An invalid zoom, a degenerate bound or an over-cap line
// count yields an empty result rather than an error: grid absence is an
// expected rendering state.
func (g *Generator) Generate(bounds Bounds, zoom int, crs *CRS) (*GridFeatures, error) {
	features := &GridFeatures{}
	adapter := spacingAdapterFor(crs)
	if bounds.IsDegenerate() || !adapter.valid(zoom) {
		return features, nil
	}

	minX, minY, maxX, maxY, err := g.nativeEnvelope(bounds, crs)
	if err != nil {
		return nil, err
	}
	spacingX, spacingY := adapter.spacing(zoom)
	originX, originY := adapter.origin()
	if (maxX-minX)/spacingX > maxLineSteps || (maxY-minY)/spacingY > maxLineSteps {
		return features, nil
	}

	// Horizontal family, south to north.
	for _, y := range gridSteps(minY, maxY, spacingY, originY) {
		start, err := g.toGeographic(Point{X: minX, Y: y}, crs)
		if err != nil {
			return nil, err
		}
		end, err := g.toGeographic(Point{X: maxX, Y: y}, crs)
		if err != nil {
			return nil, err
		}
		features.Lines = append(features.Lines, GridLine{Start: start, End: end, Label: lineLabel(crs, y)})
	}

	// Vertical family, west to east.
	for _, x := range gridSteps(minX, maxX, spacingX, originX) {
		start, err := g.toGeographic(Point{X: x, Y: minY}, crs)
		if err != nil {
			return nil, err
		}
		end, err := g.toGeographic(Point{X: x, Y: maxY}, crs)
		if err != nil {
			return nil, err
		}
		features.Lines = append(features.Lines, GridLine{Start: start, End: end, Label: lineLabel(crs, x)})
	}

	if codec := crs.MaskCodec(); codec != nil {
		if err := g.appendCellMarkers(features, codec, zoom, minX, minY, maxX, maxY, spacingX, spacingY, originX, originY, crs); err != nil {
			return nil, err
		}
	}

	return features, nil
}

// appendCellMarkers emits one labeled marker at the center of every
// visible grid cell, labeled with the zoom-appropriate truncation of the
// cell's grid reference.
func (g *Generator) appendCellMarkers(features *GridFeatures, codec MaskCodec, zoom int, minX, minY, maxX, maxY, spacingX, spacingY, originX, originY float64, crs *CRS) error {
	firstX := math.Floor((minX - originX) / spacingX)
	firstY := math.Floor((minY - originY) / spacingY)
	if ((maxX-originX)/spacingX-firstX)*((maxY-originY)/spacingY-firstY) > maxCellMarkers {
		return nil
	}
	for i := firstX; originX+i*spacingX < maxX; i++ {
		for j := firstY; originY+j*spacingY < maxY; j++ {
			center := Point{X: originX + (i+0.5)*spacingX, Y: originY + (j+0.5)*spacingY}
			label, ok := codec.EncodeAtZoom(center, zoom)
			if !ok {
				continue
			}
			at, err := g.toGeographic(center, crs)
			if err != nil {
				return err
			}
			features.Markers = append(features.Markers, GridMarker{At: at, Label: label})
		}
	}
	return nil
}

// gridSteps returns the lattice coordinates origin+k*spacing in [lo,
// hi). The step index is nudged so that a bound sitting exactly on a
// lattice line still yields it despite floating-point division error.
func gridSteps(lo, hi, spacing, origin float64) []float64 {
	first := math.Ceil((lo-origin)/spacing - 1e-9)
	var steps []float64
	for i := first; origin+i*spacing < hi; i++ {
		steps = append(steps, origin+i*spacing)
	}
	return steps
}

// nativeEnvelope converts the four corners of bounds into crs's native
// coordinates and returns their envelope.
func (g *Generator) nativeEnvelope(bounds Bounds, crs *CRS) (minX, minY, maxX, maxY float64, err error) {
	corners := []Point{
		bounds.SouthWest,
		{X: bounds.SouthWest.X, Y: bounds.NorthEast.Y},
		{X: bounds.NorthEast.X, Y: bounds.SouthWest.Y},
		bounds.NorthEast,
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, corner := range corners {
		native, err := g.registry.Convert(corner, WGS84, crs)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		minX = math.Min(minX, native.X)
		minY = math.Min(minY, native.Y)
		maxX = math.Max(maxX, native.X)
		maxY = math.Max(maxY, native.Y)
	}
	return minX, minY, maxX, maxY, nil
}

func (g *Generator) toGeographic(point Point, crs *CRS) (Point, error) {
	return g.registry.Convert(point, crs, WGS84)
}

// lineLabel returns the label for the grid line at native coordinate v.
// Masked grids are labeled by cell markers instead of line labels.
func lineLabel(crs *CRS, v float64) string {
	switch {
	case crs.IsGeographic():
		return degreeLabel(v)
	case crs.SupportsMask():
		return ""
	default:
		return splitInt(v)
	}
}

// degreeLabel formats a grid line coordinate in whole degrees, minutes
// and seconds, stripping trailing zero components so that a line at
// 121.5 reads "121度30分" and a line at 122 reads "122度".
func degreeLabel(v float64) string {
	totalSeconds := int(math.Round(math.Abs(v) * 3600))
	d := totalSeconds / 3600
	m := totalSeconds / 60 % 60
	s := totalSeconds % 60
	label := strconv.Itoa(d) + "度"
	if m != 0 || s != 0 {
		label += fmt.Sprintf("%02d分", m)
	}
	if s != 0 {
		label += fmt.Sprintf("%02d秒", s)
	}
	if v < 0 {
		label = "-" + label
	}
	return label
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
