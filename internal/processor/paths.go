package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the output folder.
var ErrLocked = errors.New("output folder is locked by another run")

// Target holds the files derived for one raster.
type Target struct {
	Raster  string // absolute source raster
	Sidecar string // GeoJSON cutline
	Clip    string // clipped raster
}

// stem returns the base name without its last extension.
func stem(name string) string {
	base := filepath.Base(name)
	s := strings.TrimSuffix(base, filepath.Ext(base))
	if s == "" {
		return base
	}
	return s
}

// ext returns the last extension of name, unless it is the whole base name.
func ext(name string) string {
	base := filepath.Base(name)
	if stem(base) == base {
		return ""
	}
	return filepath.Ext(base)
}

// DeriveTarget joins imageNo verbatim under inputFolder and places the
// cutline and clip outputs in outputFolder.
func DeriveTarget(inputFolder, outputFolder, imageNo, clipSuffix string) Target {
	raster := filepath.Join(inputFolder, imageNo)
	name := stem(raster)

	return Target{
		Raster:  resolve(raster),
		Sidecar: filepath.Join(outputFolder, name+".geojson"),
		Clip:    filepath.Join(outputFolder, name+clipSuffix+ext(raster)),
	}
}

// resolve makes path absolute, following symlinks when it exists.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if target, err := filepath.EvalSymlinks(abs); err == nil {
		return target
	}
	return abs
}

// PrepareOutput creates the output folder if missing. Parents are not created.
func PrepareOutput(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat output: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return nil
}

// lockOutput takes an exclusive lock on <dir>.lock, next to the output folder.
func lockOutput(dir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Clean(dir) + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return lock, nil
}
