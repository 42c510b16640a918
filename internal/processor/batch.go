// Package processor turns shapefile features into cutlines and clips their
// rasters with the external tool.
package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/woozymasta/shpclip/internal/clip"
	"github.com/woozymasta/shpclip/internal/config"
	"github.com/woozymasta/shpclip/internal/feature"
	"github.com/woozymasta/shpclip/internal/geo"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Source yields the raw features of one shapefile.
type Source interface {
	Path() string
	Schema() feature.Schema
	Next() bool
	Feature() feature.RawFeature
	Err() error
}

// Options controls a batch run.
type Options struct {
	InputFolder    string // folder holding the rasters named by image_no
	OutputFolder   string // cutlines and clipped rasters
	Tool           string
	ClipSuffix     string
	NoRun          bool // write cutlines, do not execute
	Simulate       bool // print commands only
	Preview        bool
	PreviewSize    int
	PreviewQuality float32
}

// Batch converts every feature of a Source and clips the matching rasters.
type Batch struct {
	converter *feature.Converter
	exec      clip.Executor
	stdout    io.Writer
	log       zerolog.Logger
	opts      Options
}

// Option configures the batch.
type Option func(*Batch)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec clip.Executor) Option {
	return func(b *Batch) {
		if exec != nil {
			b.exec = exec
		}
	}
}

// WithStdout sets the destination of the command listing.
func WithStdout(w io.Writer) Option {
	return func(b *Batch) {
		if w != nil {
			b.stdout = w
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Batch) {
		b.log = l
	}
}

// New constructs a batch using converter for every feature.
func New(converter *feature.Converter, opts Options, options ...Option) *Batch {
	if opts.Tool == "" {
		opts.Tool = config.DefaultTool
	}
	if opts.ClipSuffix == "" {
		opts.ClipSuffix = config.DefaultClipSuffix
	}
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = config.DefaultPreviewSize
	}
	if opts.PreviewQuality <= 0 {
		opts.PreviewQuality = config.DefaultPreviewQuality
	}

	b := &Batch{
		converter: converter,
		exec:      clip.ProcessExecutor{},
		stdout:    os.Stdout,
		log:       log.Logger,
		opts:      opts,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Run plans one command per valid feature, prints them and, unless NoRun or
// Simulate is set, executes them in order. Only setup and read errors are
// returned; bad records and failed launches are logged and skipped.
// Skip and progress lines carry no level and pass any log level filter.
func (b *Batch) Run(ctx context.Context, src Source) (*Summary, error) {
	if err := PrepareOutput(b.opts.OutputFolder); err != nil {
		return nil, err
	}

	if !b.opts.Simulate {
		lock, err := lockOutput(b.opts.OutputFolder)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				b.log.Warn().Err(err).Str("path", lock.Path()).Msg("Failed to release output lock")
			}
		}()
	}

	summary, err := b.Plan(src)
	if err != nil {
		return summary, err
	}

	if err := b.Print(summary.Commands); err != nil {
		return summary, fmt.Errorf("print commands: %w", err)
	}

	if b.opts.NoRun || b.opts.Simulate {
		return summary, nil
	}

	summary.Results = b.Execute(ctx, summary.Commands)
	return summary, nil
}

// Plan converts every feature of src, writing cutlines unless simulating.
func (b *Batch) Plan(src Source) (*Summary, error) {
	schema := src.Schema()
	summary := &Summary{}

	for src.Next() {
		summary.Records++
		record := summary.Records

		f, err := b.converter.Convert(schema, src.Feature())
		if err != nil {
			summary.Skipped++
			b.log.Log().
				Int("record", record).
				Str("shapefile", src.Path()).
				Err(err).
				Msg("Skipping record")
			continue
		}

		imageNo := feature.Key(f, b.converter.KeyField())
		target := DeriveTarget(b.opts.InputFolder, b.opts.OutputFolder, imageNo, b.opts.ClipSuffix)

		if !b.opts.Simulate {
			if err := geo.WriteFile(target.Sidecar, f); err != nil {
				summary.Skipped++
				b.log.Error().
					Int("record", record).
					Str("path", target.Sidecar).
					Err(err).
					Msg("Failed to write cutline")
				continue
			}
		}

		cmd := clip.NewCommand(target.Sidecar, target.Raster, target.Clip)
		cmd.Tool = b.opts.Tool
		summary.Commands = append(summary.Commands, cmd)

		b.log.Debug().
			Int("record", record).
			Str("image_no", imageNo).
			Str("cutline", target.Sidecar).
			Msg("Feature accepted")
	}

	if err := src.Err(); err != nil {
		return summary, fmt.Errorf("read %s: %w", src.Path(), err)
	}
	return summary, nil
}

// Print writes one command per line in construction order.
func (b *Batch) Print(commands []clip.Command) error {
	for _, cmd := range commands {
		if _, err := fmt.Fprintln(b.stdout, cmd.String()); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the commands one at a time. A command that cannot start is
// logged and the next one runs; exit statuses are recorded, not judged.
func (b *Batch) Execute(ctx context.Context, commands []clip.Command) []Result {
	if len(commands) == 0 {
		return nil
	}

	if err := clip.Available(b.opts.Tool); err != nil {
		b.log.Warn().Err(err).Msg("Clipping tool not found on PATH")
	}

	results := make([]Result, 0, len(commands))
	total := len(commands)
	for i, cmd := range commands {
		b.log.Log().Msgf("Command %d/%d: %s", i+1, total, cmd)

		start := time.Now()
		code, err := b.exec.Run(ctx, cmd.Args())
		res := Result{Command: cmd, ExitCode: code, Err: err, Duration: time.Since(start)}

		if err != nil {
			b.log.Error().Err(err).Str("command", cmd.String()).Msg("Failed to run command")
		} else if code == 0 && b.opts.Preview {
			res.Preview = b.preview(cmd.Destination)
		}
		results = append(results, res)
	}
	return results
}

func (b *Batch) preview(clipPath string) string {
	dst := previewPath(clipPath)
	if err := WritePreview(clipPath, dst, b.opts.PreviewSize, b.opts.PreviewQuality); err != nil {
		b.log.Warn().Err(err).Str("path", clipPath).Msg("Failed to write preview")
		return ""
	}
	return dst
}
