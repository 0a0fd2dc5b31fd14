package geo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
)

type point struct {
	name   string
	coords *domain.Coordinates
}

func coordsOf(p point) *domain.Coordinates { return p.coords }

func names(points []point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.name
	}
	return out
}

func TestDistance_KnownPairs(t *testing.T) {
	jaipur := &domain.Coordinates{Lat: 26.9124, Lon: 75.7873}
	varanasi := &domain.Coordinates{Lat: 25.3176, Lon: 82.9739}

	assert.InDelta(t, 0, Distance(jaipur, jaipur), 1e-9)
	assert.InDelta(t, 735, Distance(jaipur, varanasi), 10)
	assert.InDelta(t, Distance(jaipur, varanasi), Distance(varanasi, jaipur), 1e-9)
	// one degree of longitude on the equator
	assert.InDelta(t, 111.19, Distance(&domain.Coordinates{}, &domain.Coordinates{Lon: 1}), 0.01)
	assert.InDelta(t, math.Pi*EarthRadiusKm, Distance(&domain.Coordinates{}, &domain.Coordinates{Lon: 180}), 1e-6)
}

func TestDistance_MissingPointIsInfinite(t *testing.T) {
	assert.True(t, math.IsInf(Distance(nil, &domain.Coordinates{}), 1))
	assert.True(t, math.IsInf(Distance(&domain.Coordinates{}, nil), 1))
	assert.True(t, math.IsInf(Distance(&domain.Coordinates{Lat: math.NaN()}, &domain.Coordinates{}), 1))
}

func TestRank_NonFiniteCoordinatesSortLast(t *testing.T) {
	items := []point{
		{name: "broken", coords: &domain.Coordinates{Lat: math.NaN(), Lon: 10}},
		{name: "near", coords: &domain.Coordinates{Lat: 10, Lon: 10}},
	}

	ranked := Rank(items, &domain.Coordinates{Lat: 10, Lon: 10}, coordsOf)
	require.Len(t, ranked, 2)
	assert.Equal(t, "near", ranked[0].Item.name)
	assert.Equal(t, "broken", ranked[1].Item.name)
	assert.True(t, math.IsInf(ranked[1].DistanceKm, 1))
}

func TestSortByDistance_ScenarioD(t *testing.T) {
	items := []point{
		{name: "near", coords: &domain.Coordinates{Lat: 10, Lon: 10}},
		{name: "unknown"},
		{name: "farther", coords: &domain.Coordinates{Lat: 10.1, Lon: 10.1}},
	}

	sorted := SortByDistance(items, &domain.Coordinates{Lat: 10, Lon: 10}, coordsOf)

	assert.Equal(t, []string{"near", "farther", "unknown"}, names(sorted))
	assert.Equal(t, []string{"near", "unknown", "farther"}, names(items), "input must not be reordered")
}

func TestSortByDistance_MissingCoordinatesGoLastRegardlessOfPosition(t *testing.T) {
	items := []point{
		{name: "a"},
		{name: "b", coords: &domain.Coordinates{Lat: 50, Lon: 50}},
		{name: "c"},
		{name: "d", coords: &domain.Coordinates{Lat: 1, Lon: 1}},
	}

	sorted := SortByDistance(items, &domain.Coordinates{}, coordsOf)

	if diff := cmp.Diff([]string{"d", "b", "a", "c"}, names(sorted)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSortByDistance_NilReferenceKeepsOrder(t *testing.T) {
	items := []point{
		{name: "x", coords: &domain.Coordinates{Lat: 5, Lon: 5}},
		{name: "y", coords: &domain.Coordinates{Lat: 1, Lon: 1}},
		{name: "z"},
	}

	sorted := SortByDistance(items, nil, coordsOf)
	assert.Equal(t, []string{"x", "y", "z"}, names(sorted))
}

func TestSortByDistance_StableForEqualDistances(t *testing.T) {
	same := &domain.Coordinates{Lat: 12, Lon: 77}
	items := []point{{name: "first", coords: same}, {name: "second", coords: same}, {name: "third", coords: same}}

	sorted := SortByDistance(items, &domain.Coordinates{Lat: 13, Lon: 77}, coordsOf)
	assert.Equal(t, []string{"first", "second", "third"}, names(sorted))
}

func TestRank_ReportsDistances(t *testing.T) {
	ranked := Rank([]point{{name: "none"}, {name: "origin", coords: &domain.Coordinates{}}}, &domain.Coordinates{}, coordsOf)

	require.Len(t, ranked, 2)
	assert.Equal(t, "origin", ranked[0].Item.name)
	assert.Zero(t, ranked[0].DistanceKm)
	assert.True(t, math.IsInf(ranked[1].DistanceKm, 1))
	assert.Empty(t, SortByDistance[point](nil, nil, coordsOf))
}
