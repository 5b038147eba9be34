package kernel

import (
	"encoding/json"
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrLocationIsNotConstructed is returned when a zero Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation")

// Location is a point on the Earth's surface in decimal degrees.
// Location is an immutable value object. The zero value is invalid and fails
// Validate, so a missing position can never pass for (0, 0).
//
// Example:
//
//	shop, err := kernel.NewLocation(8.5241, 76.9366)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(shop) // Location(8.5241,76.9366)
type Location struct { //nolint:recvcheck // pointer receivers only on private setters
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewLocation creates a Location after checking both coordinates against
// [MinLatitude..MaxLatitude] and [MinLongitude..MaxLongitude].
//
// Parameters:
//   - lat: latitude in degrees
//   - lon: longitude in degrees
//
// Returns:
//   - Location: a valid location
//   - error: a joined ValueIsOutOfRangeError for every coordinate that is out of range
func NewLocation(lat float64, lon float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLon(lon)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// MustNewLocation is NewLocation for literals known to be valid. It panics otherwise.
func MustNewLocation(lat float64, lon float64) Location {
	loc, err := NewLocation(lat, lon)
	if err != nil {
		panic(err)
	}
	return loc
}

// Validate reports whether the Location was built by NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lon returns the longitude in degrees.
func (l Location) Lon() float64 {
	return l.lon
}

// String implements fmt.Stringer as "Location(lat,lon)".
func (l Location) String() string {
	return fmt.Sprintf("Location(%g,%g)", l.lat, l.lon)
}

// MarshalJSON writes the location as {"latitude":..,"longitude":..}, the shape
// the client apps read from GeoPoints.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}{l.lat, l.lon})
}

// IsEqual compares two constructed locations coordinate by coordinate.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lon == other.lon, nil
}

// DistanceTo returns the haversine distance in kilometres to other.
// Both locations must be constructed.
//
// Example:
//
//	a, _ := NewLocation(8.5241, 76.9366)
//	b, _ := NewLocation(8.5, 76.95)
//	km, err := a.DistanceTo(b) // about 3 km
func (l Location) DistanceTo(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	return Haversine(l, other), nil
}

func (l *Location) setLat(lat float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLon(lon float64) error {
	if lon < MinLongitude || lon > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lon, MinLongitude, MaxLongitude)
	}

	l.lon = lon
	return nil
}
