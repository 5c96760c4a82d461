// Package geo provides the small amount of geographic math the
// comparison needs: great-circle distances, walking-time estimates,
// and a point-in-Paris test.
//
// All routing is delegated to external services; nothing here computes
// routes.
package geo

import (
	"math"

	"github.com/jumpseat/velometro/internal/model"
)

// ─── Constants ──────────────────────────────────────────────

const (
	// EarthRadiusKm is the mean radius of Earth in kilometers.
	EarthRadiusKm = 6371.0
)

// ─── Distance ───────────────────────────────────────────────

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(a, b model.Location) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// WalkMinutes converts a walking distance in meters to minutes at the
// given speed (m/s). Used for the walk-to-nearest-bike estimate.
func WalkMinutes(meters, speedMPS float64) float64 {
	if speedMPS <= 0 || meters <= 0 {
		return 0
	}
	return meters / speedMPS / 60.0
}

// ─── Paris boundary ─────────────────────────────────────────

// parisBoundary is the city boundary polygon (département 75),
// vertices in (lat, lon) order.
var parisBoundary = []model.Location{
	{Lat: 48.90045978209, Lon: 2.3198871747441},
	{Lat: 48.902007785215, Lon: 2.3851496429397},
	{Lat: 48.898444039523, Lon: 2.394906293421},
	{Lat: 48.887109095072, Lon: 2.3988455271816},
	{Lat: 48.872892145992, Lon: 2.4132702557262},
	{Lat: 48.849233783552, Lon: 2.4163411302989},
	{Lat: 48.834538914673, Lon: 2.4122456125626},
	{Lat: 48.835797660955, Lon: 2.4221386362435},
	{Lat: 48.841528392473, Lon: 2.4281301699852},
	{Lat: 48.844818443355, Lon: 2.447699326814},
	{Lat: 48.842089485269, Lon: 2.4634383121686},
	{Lat: 48.833133318793, Lon: 2.4675819883673},
	{Lat: 48.819059770564, Lon: 2.4626960627524},
	{Lat: 48.818232447877, Lon: 2.4384475102742},
	{Lat: 48.827615470779, Lon: 2.406031823401},
	{Lat: 48.826078980076, Lon: 2.3909392530738},
	{Lat: 48.816314210034, Lon: 2.363946550191},
	{Lat: 48.817010929642, Lon: 2.3318980606376},
	{Lat: 48.82714160912, Lon: 2.2921959226619},
	{Lat: 48.832489952145, Lon: 2.2790519306533},
	{Lat: 48.827920084226, Lon: 2.2727931901868},
	{Lat: 48.834809549369, Lon: 2.2551442384175},
	{Lat: 48.845554851211, Lon: 2.2506124417162},
	{Lat: 48.853516917557, Lon: 2.2242191058804},
	{Lat: 48.86906858161, Lon: 2.2317363597469},
	{Lat: 48.880387263086, Lon: 2.2584671711142},
	{Lat: 48.877968320853, Lon: 2.2774870298138},
	{Lat: 48.8894718708, Lon: 2.2915068524977},
}

// InParis reports whether the point lies inside the city boundary,
// using the even-odd ray casting rule.
func InParis(p model.Location) bool {
	inside := false
	n := len(parisBoundary)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := parisBoundary[i], parisBoundary[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) &&
			p.Lon < (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lon {
			inside = !inside
		}
	}
	return inside
}

// ─── Helpers ────────────────────────────────────────────────

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
