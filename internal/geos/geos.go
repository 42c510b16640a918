// Package geos implements geometry validity checks and repair with libgeos.
package geos

import (
	"fmt"

	"github.com/woozymasta/shpclip/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	libgeos "github.com/twpayne/go-geos"
)

// Engine is the geo.Engine backed by libgeos. Repair is a zero-distance buffer.
type Engine struct{}

var _ geo.Engine = Engine{}

// IsValid reports whether g is topologically valid.
func (Engine) IsValid(g orb.Geometry) (valid bool, err error) {
	defer recoverGEOS(&err)

	gg, err := toGEOS(g)
	if err != nil {
		return false, err
	}
	defer gg.Destroy()

	return gg.IsValid(), nil
}

// Repair returns buffer(g, 0). The result is not validated again.
func (Engine) Repair(g orb.Geometry) (repaired orb.Geometry, err error) {
	defer recoverGEOS(&err)

	gg, err := toGEOS(g)
	if err != nil {
		return nil, err
	}
	defer gg.Destroy()

	buffered := gg.Buffer(0, 8)
	defer buffered.Destroy()

	repaired, err = wkb.Unmarshal(buffered.ToWKB())
	if err != nil {
		return nil, fmt.Errorf("decode repaired geometry: %w", err)
	}
	return repaired, nil
}

// Equal reports whether a and b are topologically equal, ignoring vertex order.
func (Engine) Equal(a, b orb.Geometry) (equal bool, err error) {
	defer recoverGEOS(&err)

	ga, err := toGEOS(a)
	if err != nil {
		return false, err
	}
	defer ga.Destroy()

	gb, err := toGEOS(b)
	if err != nil {
		return false, err
	}
	defer gb.Destroy()

	return ga.Equals(gb), nil
}

func toGEOS(g orb.Geometry) (*libgeos.Geom, error) {
	data, err := wkb.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}

	gg, err := libgeos.NewGeomFromWKB(data)
	if err != nil {
		return nil, fmt.Errorf("geos: %w", err)
	}
	return gg, nil
}

// go-geos panics on GEOS exceptions
func recoverGEOS(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("geos: %v", r)
	}
}
