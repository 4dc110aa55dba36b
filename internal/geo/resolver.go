// Package geo resolves best-effort coordinates for US locations and computes
// great-circle distances between them.
package geo

import "strings"

type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Location is what callers know about a place. Any field may be empty.
type Location struct {
	Latitude  *float64
	Longitude *float64
	City      string
	State     string
}

type strategy func(Location) (Coordinate, bool)

// Resolver tries explicit coordinates, then the city table, then the state
// centroid table. It is stateless and safe for concurrent use.
type Resolver struct {
	strategies []strategy
}

func NewResolver() *Resolver {
	return &Resolver{
		strategies: []strategy{
			fromExplicit,
			fromCity,
			fromState,
		},
	}
}

// Resolve returns false when no strategy matches. That is an expected
// outcome, not a fault.
func (r *Resolver) Resolve(loc Location) (Coordinate, bool) {
	for _, try := range r.strategies {
		if c, ok := try(loc); ok {
			return c, true
		}
	}
	return Coordinate{}, false
}

func fromExplicit(loc Location) (Coordinate, bool) {
	if loc.Latitude == nil || loc.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *loc.Latitude, Lng: *loc.Longitude}, true
}

func fromCity(loc Location) (Coordinate, bool) {
	if loc.City == "" {
		return Coordinate{}, false
	}
	c, ok := cityCoordinates[loc.City]
	return c, ok
}

func fromState(loc Location) (Coordinate, bool) {
	if loc.State == "" {
		return Coordinate{}, false
	}
	c, ok := stateCentroids[strings.ToUpper(loc.State)]
	return c, ok
}
