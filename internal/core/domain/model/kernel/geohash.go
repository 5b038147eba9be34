package kernel

import (
	"math"
	"strings"

	"github.com/mmcloughlin/geohash"
)

const (
	// GeohashStoredPrecision is the precision written next to every partner position.
	GeohashStoredPrecision uint = 9
	maxGeohashPrecision    uint = 12
	kmPerDegree                 = math.Pi * EarthRadiusKm / 180
)

// Geohash encodes the location at the given precision (characters).
func (l Location) Geohash(precision uint) string {
	return geohash.EncodeWithPrecision(l.lat, l.lon, precision)
}

// GeohashPrefixMatch reports whether both hashes share their first precision characters.
func GeohashPrefixMatch(pointGeohash, queryGeohash string, precision uint) bool {
	p := int(precision)
	if p == 0 || len(pointGeohash) < p || len(queryGeohash) < p {
		return false
	}
	return strings.EqualFold(pointGeohash[:p], queryGeohash[:p])
}

// CoarseCells returns the geohash cell holding center plus its eight
// neighbours, at the finest precision whose cells are still at least twice
// radiusKm wide and tall around center. Every point within radiusKm of center
// falls inside one of the returned cells. A zero precision means no precision
// is coarse enough and the caller must skip the pre-filter.
func CoarseCells(center Location, radiusKm float64) ([]string, uint) {
	precision := cellPrecisionFor(center.lat, radiusKm)
	if precision == 0 {
		return nil, 0
	}

	hash := center.Geohash(precision)
	cells := make([]string, 0, 9)
	cells = append(cells, hash)
	cells = append(cells, geohash.Neighbors(hash)...)
	return cells, precision
}

// InCells reports whether pointGeohash falls in one of cells at precision.
func InCells(pointGeohash string, cells []string, precision uint) bool {
	for _, cell := range cells {
		if GeohashPrefixMatch(pointGeohash, cell, precision) {
			return true
		}
	}
	return false
}

func cellPrecisionFor(lat, radiusKm float64) uint {
	if radiusKm <= 0 {
		return maxGeohashPrecision
	}

	// Longitude cells shrink towards the poles, so measure them at the
	// latitude farthest from the equator that the radius can reach.
	edgeLat := math.Min(math.Abs(lat)+radiusKm/kmPerDegree, MaxLatitude)
	lonScale := math.Cos(toRadians(edgeLat))

	for p := maxGeohashPrecision; p >= 1; p-- {
		bits := 5 * p
		lonBits := (bits + 1) / 2
		latBits := bits / 2
		heightKm := 180 / math.Exp2(float64(latBits)) * kmPerDegree
		widthKm := 360 / math.Exp2(float64(lonBits)) * kmPerDegree * lonScale
		if heightKm >= 2*radiusKm && widthKm >= 2*radiusKm {
			return p
		}
	}
	return 0
}
