package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/woozymasta/shpclip/internal/config"
	"github.com/woozymasta/shpclip/internal/feature"
	"github.com/woozymasta/shpclip/internal/geos"
	"github.com/woozymasta/shpclip/internal/logger"
	"github.com/woozymasta/shpclip/internal/processor"
	"github.com/woozymasta/shpclip/internal/shapefile"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Args struct {
		ShapeFile string `positional-arg-name:"shape_file" description:"A shape file with the field \"image_no\" in it"`
	} `positional-args:"yes" required:"yes"`

	InputFolder string `short:"i" long:"input_folder" env:"INPUT_FOLDER" description:"The folder that contains the raster files" required:"true"`
	OutputPath  string `short:"o" long:"output_path"  env:"OUTPUT_PATH"  description:"The path where the geojson files will be created" required:"true"`
	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to configuration file"`
	Tool        string `short:"t" long:"tool"         env:"CLIP_TOOL"    description:"Clipping tool binary (default gdalwarp)"`
	NoRun       bool   `short:"n" long:"no_run"       description:"Do not execute command but write geoJSON file"`
	Simulate    bool   `short:"s" long:"simulate"     description:"Do not execute command and dont write anything on disk"`
	Preview     bool   `short:"p" long:"preview"      description:"Write a WebP preview next to every clipped raster"`
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

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Tool != "" {
		cfg.Tool = opts.Tool
	}
	if opts.Preview {
		cfg.Preview = true
	}

	outputPath, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.OutputPath).Msg("Failed to resolve output path")
	}
	inputFolder, err := filepath.Abs(opts.InputFolder)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.InputFolder).Msg("Failed to resolve input folder")
	}

	if err := processor.PrepareOutput(outputPath); err != nil {
		log.Fatal().Err(err).Str("path", outputPath).Msg("Failed to prepare output folder")
	}

	reader, err := shapefile.Open(opts.Args.ShapeFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open shapefile")
	}
	defer func() { _ = reader.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("shapefile", reader.Path()).
		Str("input", inputFolder).
		Str("output", outputPath).
		Bool("no_run", opts.NoRun).
		Bool("simulate", opts.Simulate).
		Msg("Starting clip run")

	converter := feature.NewConverter(geos.Engine{}, feature.WithKeyField(cfg.KeyField))
	batch := processor.New(converter, processor.Options{
		InputFolder:    inputFolder,
		OutputFolder:   outputPath,
		Tool:           cfg.Tool,
		ClipSuffix:     cfg.ClipSuffix,
		NoRun:          opts.NoRun,
		Simulate:       opts.Simulate,
		Preview:        cfg.Preview,
		PreviewSize:    cfg.PreviewSize,
		PreviewQuality: cfg.PreviewQuality,
	})

	summary, err := batch.Run(ctx, reader)
	if err != nil {
		log.Fatal().Err(err).Msg("Clip run failed")
	}

	if err := summary.Render(os.Stderr); err != nil {
		log.Error().Err(err).Msg("Failed to render summary")
	}

	log.Info().
		Int("records", summary.Records).
		Int("skipped", summary.Skipped).
		Int("commands", len(summary.Commands)).
		Int("failed", summary.Failed()).
		Msg("Clip run finished")
}
