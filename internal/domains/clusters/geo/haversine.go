// Package geo orders entities by great-circle distance.
package geo

import (
	"math"
	"slices"

	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the Haversine distance in kilometres between a and b.
// It returns +Inf when either point is missing or not a finite number.
func Distance(a, b *domain.Coordinates) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	// rounding can push h marginally past 1 for antipodal points
	h = math.Min(1, h)
	d := 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}

// Ranked pairs an item with its distance from the reference.
type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// Rank returns items with their distances, closest first. Items without coordinates,
// or every item when reference is nil, get +Inf and keep their relative order at the end.
func Rank[T any](items []T, reference *domain.Coordinates, coordsOf func(T) *domain.Coordinates) []Ranked[T] {
	ranked := make([]Ranked[T], len(items))
	for i, item := range items {
		ranked[i] = Ranked[T]{Item: item, DistanceKm: Distance(coordsOf(item), reference)}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// SortByDistance returns a new slice ordered by ascending distance from reference.
// The input is not modified.
func SortByDistance[T any](items []T, reference *domain.Coordinates, coordsOf func(T) *domain.Coordinates) []T {
	ranked := Rank(items, reference, coordsOf)
	sorted := make([]T, len(ranked))
	for i, r := range ranked {
		sorted[i] = r.Item
	}
	return sorted
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
