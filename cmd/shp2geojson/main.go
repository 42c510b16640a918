package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/shpclip/internal/config"
	"github.com/woozymasta/shpclip/internal/feature"
	"github.com/woozymasta/shpclip/internal/geo"
	"github.com/woozymasta/shpclip/internal/geos"
	"github.com/woozymasta/shpclip/internal/shapefile"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb/geojson"
)

type Options struct {
	Args struct {
		ShapeFile string `positional-arg-name:"shape_file" description:"Input shapefile (.shp)"`
	} `positional-args:"yes" required:"yes"`

	Output   string `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
	Format   string `short:"f" long:"format"    description:"Output format" choice:"json" choice:"yaml" default:"json"`
	KeyField string `short:"k" long:"key-field" description:"Attribute naming the raster of a feature" default:"image_no"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	reader, err := shapefile.Open(opts.Args.ShapeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = reader.Close() }()

	if opts.KeyField == "" {
		opts.KeyField = config.DefaultKeyField
	}
	converter := feature.NewConverter(geos.Engine{}, feature.WithKeyField(opts.KeyField))

	fc := geojson.NewFeatureCollection()
	schema := reader.Schema()
	i := 0
	for reader.Next() {
		i++
		f, err := converter.Convert(schema, reader.Feature())
		if err != nil {
			var verr *feature.ValidationError
			if !errors.As(err, &verr) {
				err = fmt.Errorf("geometry: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Skipping record %d (%s): %v\n", i, reader.Path(), err)
			continue
		}
		fc.Append(f)
	}
	if err := reader.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading records: %v\n", err)
		os.Exit(1)
	}

	outputData, err := geo.Marshal(fc, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d features to %s (format: %s)\n", len(fc.Features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
