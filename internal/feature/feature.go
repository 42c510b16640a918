// Package feature converts shapefile records into GeoJSON features keyed by
// the raster they describe.
package feature

import (
	"fmt"
	"reflect"

	"github.com/woozymasta/shpclip/internal/config"
	"github.com/woozymasta/shpclip/internal/geo"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb/geojson"
)

// Schema is the ordered list of attribute field names of a shapefile.
type Schema []string

// SchemaFromFields builds a Schema from dBase field descriptors.
func SchemaFromFields(fields []shp.Field) Schema {
	schema := make(Schema, 0, len(fields))
	for _, f := range fields {
		schema = append(schema, f.String())
	}
	return schema
}

// RawFeature is one shapefile record: a shape and its attribute values,
// positionally aligned with the Schema.
type RawFeature struct {
	Shape  shp.Shape
	Values []any
}

// ShapeTypeName returns the shapefile type name of the record's shape.
func (r RawFeature) ShapeTypeName() string {
	return geo.ShapeTypeName(r.Shape)
}

// ValidationError reports a record that cannot become a clip feature.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Converter turns RawFeatures into GeoJSON features, repairing invalid geometry.
type Converter struct {
	engine   geo.Engine
	keyField string
}

// Option configures the converter.
type Option func(*Converter)

// WithKeyField overrides the attribute naming the raster ("image_no").
func WithKeyField(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.keyField = name
		}
	}
}

// NewConverter constructs a Converter using engine for validity checks.
func NewConverter(engine geo.Engine, opts ...Option) *Converter {
	c := &Converter{
		engine:   engine,
		keyField: config.DefaultKeyField,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KeyField returns the attribute naming the raster of a feature.
func (c *Converter) KeyField() string {
	return c.keyField
}

// Convert builds the GeoJSON feature for raw. Invalid geometries are replaced
// in full by the engine's repair; the repaired geometry is not checked again.
func (c *Converter) Convert(schema Schema, raw RawFeature) (*geojson.Feature, error) {
	props := make(geojson.Properties, len(schema))
	for i, name := range schema {
		if i >= len(raw.Values) {
			break
		}
		props[name] = raw.Values[i]
	}

	if !truthy(props[c.keyField]) {
		return nil, &ValidationError{Reason: fmt.Sprintf("missing 1 required field: '%s'", c.keyField)}
	}

	shapeType := raw.ShapeTypeName()
	if shapeType == geo.NullShapeType {
		return nil, &ValidationError{Reason: fmt.Sprintf("Shape type %q cannot be represented as GeoJSON.", shapeType)}
	}

	geom, err := geo.FromShape(raw.Shape)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	valid, err := c.engine.IsValid(geom)
	if err != nil {
		return nil, fmt.Errorf("check geometry: %w", err)
	}
	if !valid {
		geom, err = c.engine.Repair(geom)
		if err != nil {
			return nil, fmt.Errorf("repair geometry: %w", err)
		}
	}

	f := geojson.NewFeature(geom)
	f.Properties = props
	return f, nil
}

// Key returns the raster name stored under field in f.
func Key(f *geojson.Feature, field string) string {
	v, ok := f.Properties[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// truthy mirrors attribute truthiness: nil, empty strings, false and zero
// numbers are all missing values.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}
