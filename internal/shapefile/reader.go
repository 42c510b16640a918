// Package shapefile reads shapefile records as raw features.
package shapefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/shpclip/internal/feature"

	"github.com/jonas-p/go-shp"
)

// Reader iterates the records of a shapefile in file order.
type Reader struct {
	r      *shp.Reader
	path   string
	fields []shp.Field
	schema feature.Schema
	cur    feature.RawFeature
}

// Open opens the .shp file at path together with its .dbf attributes.
func Open(path string) (*Reader, error) {
	// go-shp opens the .dbf lazily and drops its error
	dbf := strings.TrimSuffix(path, filepath.Ext(path)) + ".dbf"
	info, err := os.Stat(dbf)
	if err != nil {
		return nil, fmt.Errorf("open attribute table: %w", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return nil, fmt.Errorf("unreadable attribute table %s", dbf)
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", path, err)
	}

	fields := r.Fields()
	if len(fields) == 0 {
		_ = r.Close()
		return nil, fmt.Errorf("attribute table %s has no fields", dbf)
	}
	return &Reader{
		r:      r,
		path:   path,
		fields: fields,
		schema: feature.SchemaFromFields(fields),
	}, nil
}

// Path returns the shapefile path.
func (r *Reader) Path() string {
	return r.path
}

// Schema returns the attribute field names in descriptor order.
func (r *Reader) Schema() feature.Schema {
	return r.schema
}

// Next advances to the next record.
func (r *Reader) Next() bool {
	if !r.r.Next() {
		return false
	}

	row, shape := r.r.Shape()
	values := make([]any, len(r.fields))
	for i, f := range r.fields {
		values[i] = parseValue(f, r.r.ReadAttribute(row, i))
	}

	r.cur = feature.RawFeature{Shape: shape, Values: values}
	return true
}

// Feature returns the current record.
func (r *Reader) Feature() feature.RawFeature {
	return r.cur
}

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	return r.r.Err()
}

// Close releases the underlying files.
func (r *Reader) Close() error {
	return r.r.Close()
}

// parseValue types a dBase attribute from its field descriptor.
func parseValue(f shp.Field, raw string) any {
	s := strings.TrimSpace(strings.Trim(raw, "\x00"))

	switch f.Fieldtype {
	case 'N', 'F':
		if s == "" || strings.Trim(s, "*") == "" {
			return nil
		}
		if f.Precision == 0 {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
		return s
	case 'L':
		switch s {
		case "T", "t", "Y", "y":
			return true
		case "F", "f", "N", "n":
			return false
		default:
			return nil
		}
	default:
		return s
	}
}
