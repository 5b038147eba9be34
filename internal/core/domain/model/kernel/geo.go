package kernel

import (
	"math"

	"dispatch/internal/pkg/errs"
)

// EarthRadiusKm is the mean Earth radius used by every distance in the service.
const EarthRadiusKm = 6371.0

const distancePrecision = 10000 // four decimal places

// HaversineKm returns the great-circle distance in kilometres between two
// points given in degrees, rounded to four decimal places.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*distancePrecision) / distancePrecision
}

// Haversine is HaversineKm over two locations.
func Haversine(a, b Location) float64 {
	return HaversineKm(a.lat, a.lon, b.lat, b.lon)
}

// Centroid returns the geographic centre of points, averaged on the unit
// sphere so that clusters spanning the antimeridian stay correct.
func Centroid(points []Location) (Location, error) {
	if len(points) == 0 {
		return Location{}, errs.NewValueIsRequiredError("points")
	}

	var x, y, z float64
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return Location{}, err
		}
		phi := toRadians(p.lat)
		lambda := toRadians(p.lon)
		x += math.Cos(phi) * math.Cos(lambda)
		y += math.Cos(phi) * math.Sin(lambda)
		z += math.Sin(phi)
	}

	n := float64(len(points))
	x, y, z = x/n, y/n, z/n

	lon := math.Atan2(y, x)
	lat := math.Atan2(z, math.Sqrt(x*x+y*y))

	return NewLocation(toDegrees(lat), toDegrees(lon))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
