package presenter

import (
	"fmt"
	"math"

	"github.com/MKhiriev/munch-sync/models"
)

const earthRadiusMeters = 6_371_000.0

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b models.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// FormatDistance renders meters as "250m", "1.2km" or "35km".
func FormatDistance(meters float64) string {
	switch {
	case meters < 0 || math.IsNaN(meters):
		return ""
	case meters < 1000:
		// nearest ten, never "1000m"
		return fmt.Sprintf("%.0fm", math.Min(990, math.Round(meters/10)*10))
	case meters < 10_000:
		return fmt.Sprintf("%.1fkm", meters/1000)
	default:
		return fmt.Sprintf("%.0fkm", meters/1000)
	}
}

// PlaceDistance formats the distance from the user to p. It is empty when
// either position is unknown.
func PlaceDistance(from *models.LatLng, p models.Place) string {
	if from == nil || p.Location.LatLng == nil {
		return ""
	}
	return FormatDistance(DistanceMeters(*from, *p.Location.LatLng))
}
