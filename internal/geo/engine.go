package geo

import "github.com/paulmach/orb"

// Engine checks geometry validity and repairs invalid geometries.
type Engine interface {
	IsValid(g orb.Geometry) (bool, error)
	Repair(g orb.Geometry) (orb.Geometry, error)
}
