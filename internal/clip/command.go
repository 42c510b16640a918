// Package clip builds and runs the raster clipping commands.
package clip

import (
	"strings"

	"github.com/woozymasta/shpclip/internal/config"
)

// Command is one invocation of the clipping tool: crop Source to the
// Cutline geometry into Destination, adding an alpha band.
type Command struct {
	Tool        string
	Cutline     string
	Source      string
	Destination string
}

// NewCommand constructs a gdalwarp command.
func NewCommand(cutline, source, destination string) Command {
	return Command{
		Tool:        config.DefaultTool,
		Cutline:     cutline,
		Source:      source,
		Destination: destination,
	}
}

// Args returns the full argument vector, tool first.
func (c Command) Args() []string {
	tool := c.Tool
	if tool == "" {
		tool = config.DefaultTool
	}
	return []string{
		tool,
		"-cutline", c.Cutline,
		"-crop_to_cutline",
		"-dstalpha",
		c.Source,
		c.Destination,
	}
}

// String joins the arguments with single spaces.
func (c Command) String() string {
	return strings.Join(c.Args(), " ")
}
