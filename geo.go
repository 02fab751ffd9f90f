package airports

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// DEFAULT_SUPPRESS_BUFFER is buffer (degrees) around area rectangle used to detect points duplicating an area
	DEFAULT_SUPPRESS_BUFFER = 0.00005
)

// ShapeMode defines how geometry of matched way is exported
type ShapeMode uint16

const (
	// SHAPE_AS_IS exports way geometry as resolved from member nodes
	SHAPE_AS_IS = ShapeMode(iota + 1)
	// SHAPE_ENVELOPE exports smallest rectangle with sides parallel to the coordinate axes
	SHAPE_ENVELOPE
	// SHAPE_MIN_ROTATED_RECT exports minimum bounding rectangle of any orientation
	SHAPE_MIN_ROTATED_RECT
)

func (iotaIdx ShapeMode) String() string {
	if iotaIdx < SHAPE_AS_IS || iotaIdx > SHAPE_MIN_ROTATED_RECT {
		return "unknown"
	}
	return [...]string{"as_is", "envelope", "minimum_rotated_rectangle"}[iotaIdx-1]
}

// applyShape returns exported geometry for given way geometry. Returns new slice
func applyShape(mode ShapeMode, geom []GeoPoint) []GeoPoint {
	if len(geom) == 0 {
		return copyLine(geom)
	}
	switch mode {
	case SHAPE_ENVELOPE:
		return lineFromOrb(lineToOrb(geom).Bound().ToRing())
	case SHAPE_MIN_ROTATED_RECT:
		line := lineToOrb(geom)
		hull := convexHull(line)
		if len(hull) < 3 {
			// Degenerate (point or line) is returned as is
			return lineFromOrb(hull)
		}
		rect, _ := minRotatedRect(line)
		return lineFromOrb(rect.ring())
	default:
		return copyLine(geom)
	}
}

// suppressPointsInAreas drops points which fall into buffered minimum rotated rectangle of any area.
// Returns kept points and number of dropped ones
func suppressPointsInAreas(points []PointMatch, areas []AreaMatch, buffer float64) ([]PointMatch, int) {
	if len(points) == 0 || len(areas) == 0 {
		return points, 0
	}
	rings := make([]orb.Ring, 0, len(areas))
	bounds := make([]orb.Bound, 0, len(areas))
	for _, area := range areas {
		rect, ok := minRotatedRect(lineToOrb(area.Geom))
		if !ok {
			continue
		}
		ring := rect.buffer(buffer).ring()
		rings = append(rings, ring)
		bounds = append(bounds, ring.Bound())
	}
	kept := make([]PointMatch, 0, len(points))
	for _, pt := range points {
		inside := false
		p := pt.Point.Point()
		for i, ring := range rings {
			if !bounds[i].Contains(p) {
				continue
			}
			if planar.RingContains(ring, p) {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, pt)
		}
	}
	return kept, len(points) - len(kept)
}
