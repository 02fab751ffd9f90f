package airports

import (
	"strconv"
	"strings"
)

// PrepareTextPoint returns 'lat lon' representation of Point with fixed number of decimals
func PrepareTextPoint(pt GeoPoint, precision int) string {
	return strconv.FormatFloat(pt.Lat, 'f', precision, 64) + " " + strconv.FormatFloat(pt.Lon, 'f', precision, 64)
}

// PrepareTextLine returns 'lat lon; lat lon; ...' representation of given points
func PrepareTextLine(pts []GeoPoint, precision int) string {
	ptsStr := make([]string, len(pts))
	for i := range pts {
		ptsStr[i] = PrepareTextPoint(pts[i], precision)
	}
	return strings.Join(ptsStr, "; ")
}
