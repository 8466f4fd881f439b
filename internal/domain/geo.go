package domain

// EarthRadiusMiles is the mean radius of the Earth used to turn a linear
// distance into an angular radius for spherical cap queries.
const EarthRadiusMiles = 3963.0

// GeoPoint is a WGS 84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a GeoJSON point plus the address parts returned by the geocoder.
// Coordinates are ordered [longitude, latitude] as GeoJSON requires.
type Location struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"`
	FormattedAddress string     `json:"formattedAddress,omitempty"`
	Street           string     `json:"street,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Zipcode          string     `json:"zipcode,omitempty"`
	Country          string     `json:"country,omitempty"`
}

// GeoResult is one candidate match returned by a geocoding lookup.
type GeoResult struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

// Location converts the result into a GeoJSON point location.
func (g GeoResult) Location() Location {
	return Location{
		Type:             "Point",
		Coordinates:      [2]float64{g.Longitude, g.Latitude},
		FormattedAddress: g.FormattedAddress,
		Street:           g.Street,
		City:             g.City,
		State:            g.State,
		Zipcode:          g.Zipcode,
		Country:          g.Country,
	}
}

// RadiusFromMiles converts a distance in miles to an angular radius in radians.
func RadiusFromMiles(miles float64) float64 {
	return miles / EarthRadiusMiles
}
