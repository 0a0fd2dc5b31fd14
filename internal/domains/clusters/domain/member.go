package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyClusterID     = errors.New("cluster id is required")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate requires finite degrees with lat in [-90, 90] and lon in [-180, 180].
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: lat %v", ErrInvalidCoordinates, c.Lat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: lon %v", ErrInvalidCoordinates, c.Lon)
	}
	return nil
}

// Member is an artisan or supplier listed in a cluster.
type Member struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Specialty   string       `json:"specialty"`
	Cluster     string       `json:"cluster"`
	SubCategory string       `json:"subCategory"`
	Location    string       `json:"location"`
	Coords      *Coordinates `json:"locationCoords,omitempty"`
}
