// Package geo converts shapefile shapes into GeoJSON geometries and checks their validity.
package geo

import (
	"errors"
	"fmt"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// NullShapeType is the shape type name of an empty record.
const NullShapeType = "NULL"

// ErrUnsupportedShape is returned for shapes without a GeoJSON rendition.
var ErrUnsupportedShape = errors.New("unsupported shape type")

// ShapeTypeName returns the shapefile type name of s (e.g. "POLYGONZ").
// A nil shape is reported as NULL.
func ShapeTypeName(s shp.Shape) string {
	switch s.(type) {
	case nil, *shp.Null:
		return NullShapeType
	case *shp.Point:
		return "POINT"
	case *shp.PolyLine:
		return "POLYLINE"
	case *shp.Polygon:
		return "POLYGON"
	case *shp.MultiPoint:
		return "MULTIPOINT"
	case *shp.PointZ:
		return "POINTZ"
	case *shp.PolyLineZ:
		return "POLYLINEZ"
	case *shp.PolygonZ:
		return "POLYGONZ"
	case *shp.MultiPointZ:
		return "MULTIPOINTZ"
	case *shp.PointM:
		return "POINTM"
	case *shp.PolyLineM:
		return "POLYLINEM"
	case *shp.PolygonM:
		return "POLYGONM"
	case *shp.MultiPointM:
		return "MULTIPOINTM"
	case *shp.MultiPatch:
		return "MULTIPATCH"
	default:
		return fmt.Sprintf("%T", s)
	}
}

// FromShape returns the GeoJSON compatible geometry of a shapefile shape.
// Z and M values are dropped.
func FromShape(s shp.Shape) (orb.Geometry, error) {
	switch v := s.(type) {
	case *shp.Point:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointM:
		return orb.Point{v.X, v.Y}, nil
	case *shp.MultiPoint:
		return multiPoint(v.Points), nil
	case *shp.MultiPointZ:
		return multiPoint(v.Points), nil
	case *shp.MultiPointM:
		return multiPoint(v.Points), nil
	case *shp.PolyLine:
		return lines(v.Parts, v.Points), nil
	case *shp.PolyLineZ:
		return lines(v.Parts, v.Points), nil
	case *shp.PolyLineM:
		return lines(v.Parts, v.Points), nil
	case *shp.Polygon:
		return polygons(v.Parts, v.Points), nil
	case *shp.PolygonZ:
		return polygons(v.Parts, v.Points), nil
	case *shp.PolygonM:
		return polygons(v.Parts, v.Points), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, ShapeTypeName(s))
	}
}

func multiPoint(points []shp.Point) orb.MultiPoint {
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, orb.Point{p.X, p.Y})
	}
	return mp
}

// splitParts slices points into the parts given by their start offsets.
func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	if len(parts) == 0 {
		parts = []int32{0}
	}

	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if start < 0 || int(start) > end || end > len(points) {
			continue
		}

		part := make([]orb.Point, 0, end-int(start))
		for _, p := range points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		out = append(out, part)
	}
	return out
}

func lines(parts []int32, points []shp.Point) orb.Geometry {
	split := splitParts(parts, points)
	if len(split) == 1 {
		return orb.LineString(split[0])
	}

	mls := make(orb.MultiLineString, 0, len(split))
	for _, part := range split {
		mls = append(mls, orb.LineString(part))
	}
	return mls
}

// polygons groups rings the shapefile way: clockwise rings are exteriors,
// the others are holes of the first exterior containing them. The result is
// wound the GeoJSON way, exteriors counterclockwise and holes clockwise.
func polygons(parts []int32, points []shp.Point) orb.Geometry {
	var exteriors, holes []orb.Ring
	for _, part := range splitParts(parts, points) {
		if len(part) == 0 {
			continue
		}
		ring := orb.Ring(part)
		if ring.Orientation() == orb.CW {
			exteriors = append(exteriors, ring)
		} else {
			holes = append(holes, ring)
		}
	}

	if len(exteriors) == 0 {
		exteriors, holes = holes, nil
	}

	polys := make(orb.MultiPolygon, 0, len(exteriors))
	for _, ext := range exteriors {
		polys = append(polys, orb.Polygon{ext})
	}

	for _, hole := range holes {
		placed := false
		if len(hole) > 0 {
			for i := range polys {
				if planar.RingContains(polys[i][0], hole[0]) {
					polys[i] = append(polys[i], hole)
					placed = true
					break
				}
			}
		}
		if !placed {
			polys = append(polys, orb.Polygon{hole})
		}
	}

	for _, poly := range polys {
		rewind(poly)
	}

	if len(polys) == 1 {
		return polys[0]
	}
	return polys
}

// rewind reverses rings in place so the exterior is counterclockwise and
// every hole clockwise.
func rewind(poly orb.Polygon) {
	for i, ring := range poly {
		want := orb.CW
		if i == 0 {
			want = orb.CCW
		}
		if o := ring.Orientation(); o != 0 && o != want {
			ring.Reverse()
		}
	}
}
