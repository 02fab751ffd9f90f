package airports

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// GeoPoint representation of point on Earth
type GeoPoint struct {
	Lat float64
	Lon float64
}

// String returns pretty printed value for for GeoPoint
func (gp GeoPoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", gp.Lon, gp.Lat)
}

// Point returns planar representation of GeoPoint (Lon == X, Lat == Y)
func (gp GeoPoint) Point() orb.Point {
	return orb.Point{gp.Lon, gp.Lat}
}

func geoPointFromOrb(pt orb.Point) GeoPoint {
	return GeoPoint{Lat: pt.Lat(), Lon: pt.Lon()}
}

// lineToOrb converts set of points to LineString (Lon == X, Lat == Y)
func lineToOrb(pts []GeoPoint) orb.LineString {
	line := make(orb.LineString, len(pts))
	for i := range pts {
		line[i] = pts[i].Point()
	}
	return line
}

func lineFromOrb(pts []orb.Point) []GeoPoint {
	line := make([]GeoPoint, len(pts))
	for i := range pts {
		line[i] = geoPointFromOrb(pts[i])
	}
	return line
}

// copyLine returns copy of given line
func copyLine(pts []GeoPoint) []GeoPoint {
	output := make([]GeoPoint, len(pts))
	copy(output, pts)
	return output
}

// cross returns Z-component of (a - o) x (b - o)
func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull returns convex hull of given points in counter-clockwise order (first point is not repeated).
// Monotone chain algorithm. Collinear points are dropped, so hull of collinear input consists of two extreme points.
func convexHull(line orb.LineString) []orb.Point {
	pts := make([]orb.Point, len(line))
	copy(pts, line)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})
	// Remove duplicates
	uniq := pts[:0]
	for _, pt := range pts {
		if len(uniq) == 0 || pt != uniq[len(uniq)-1] {
			uniq = append(uniq, pt)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}
	hull := make([]orb.Point, 0, 2*len(pts))
	// Lower hull
	for _, pt := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	// Upper hull
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		pt := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	return hull[:len(hull)-1]
}

// rotatedRect is a rectangle defined in the frame of unit axes u and v:
// every point inside satisfies minU <= (p - origin)*u <= maxU and minV <= (p - origin)*v <= maxV
type rotatedRect struct {
	origin orb.Point
	u      orb.Point
	v      orb.Point
	minU   float64
	maxU   float64
	minV   float64
	maxV   float64
}

func (rect rotatedRect) area() float64 {
	return (rect.maxU - rect.minU) * (rect.maxV - rect.minV)
}

func (rect rotatedRect) corner(a, b float64) orb.Point {
	return orb.Point{
		rect.origin[0] + rect.u[0]*a + rect.v[0]*b,
		rect.origin[1] + rect.u[1]*a + rect.v[1]*b,
	}
}

// ring returns closed ring of the rectangle
func (rect rotatedRect) ring() orb.Ring {
	first := rect.corner(rect.minU, rect.minV)
	return orb.Ring{
		first,
		rect.corner(rect.maxU, rect.minV),
		rect.corner(rect.maxU, rect.maxV),
		rect.corner(rect.minU, rect.maxV),
		first,
	}
}

// buffer grows the rectangle by given distance on every side. Corners stay square.
func (rect rotatedRect) buffer(distance float64) rotatedRect {
	rect.minU -= distance
	rect.maxU += distance
	rect.minV -= distance
	rect.maxV += distance
	return rect
}

// projectOn fits rectangle with axis u (unit vector) around given points
func projectOn(origin, u orb.Point, pts []orb.Point) rotatedRect {
	v := orb.Point{-u[1], u[0]}
	rect := rotatedRect{
		origin: origin,
		u:      u,
		v:      v,
		minU:   math.Inf(1),
		maxU:   math.Inf(-1),
		minV:   math.Inf(1),
		maxV:   math.Inf(-1),
	}
	for _, pt := range pts {
		dx, dy := pt[0]-origin[0], pt[1]-origin[1]
		a := dx*u[0] + dy*u[1]
		b := dx*v[0] + dy*v[1]
		rect.minU = math.Min(rect.minU, a)
		rect.maxU = math.Max(rect.maxU, a)
		rect.minV = math.Min(rect.minV, b)
		rect.maxV = math.Max(rect.maxV, b)
	}
	return rect
}

// minRotatedRect returns minimum-area rectangle enclosing given line (rotating calipers over convex hull edges).
// Returns false for empty input.
//
// Note: Euclidean space (Lon == X, Lat == Y)
//
func minRotatedRect(line orb.LineString) (rotatedRect, bool) {
	hull := convexHull(line)
	if len(hull) == 0 {
		return rotatedRect{}, false
	}
	if len(hull) == 1 {
		return projectOn(hull[0], orb.Point{1, 0}, hull), true
	}
	var best rotatedRect
	found := false
	for i := range hull {
		p := hull[i]
		q := hull[(i+1)%len(hull)]
		dx, dy := q[0]-p[0], q[1]-p[1]
		edgeLen := math.Hypot(dx, dy)
		if edgeLen == 0 {
			continue
		}
		rect := projectOn(p, orb.Point{dx / edgeLen, dy / edgeLen}, hull)
		if !found || rect.area() < best.area() {
			best = rect
			found = true
		}
	}
	return best, found
}
