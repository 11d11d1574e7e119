package physics

import (
	"fmt"
	"math"

	"seaplan/internal/types"
)

const earthRadiusNm = 3440.065

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Heading returns the initial great-circle bearing (degrees from North, in
// [0, 360)) from node a to node b. Identical coordinates have no defined
// bearing and fail with DegenerateLeg.
func Heading(a, b types.SpatialNode) (float64, error) {
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return 0, types.NewAppError(types.ErrCodeDegenerateLeg,
			fmt.Sprintf("nodes %d and %d share coordinates (%.6f, %.6f)", a.Index, b.Index, a.Lat, a.Lon), nil)
	}
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := degrees(math.Atan2(y, x))
	return math.Mod(bearing+360, 360), nil
}

// GreatCircleNm returns the great-circle distance between two nodes in
// nautical miles (haversine form).
func GreatCircleNm(a, b types.SpatialNode) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusNm * math.Asin(math.Min(1, math.Sqrt(h)))
}
