package processor

import (
	"io"
	"strconv"
	"time"

	"github.com/woozymasta/shpclip/internal/clip"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Result records the outcome of one executed command.
type Result struct {
	Command  clip.Command
	Err      error // launch failure
	ExitCode int
	Duration time.Duration
	Preview  string
}

// Summary describes a finished run.
type Summary struct {
	Records  int
	Skipped  int
	Commands []clip.Command
	Results  []Result
}

// Failed counts commands that did not start.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Render writes the execution results as a table.
func (s *Summary) Render(w io.Writer) error {
	if len(s.Results) == 0 {
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Raster", "Status", "Duration"})

	for i, r := range s.Results {
		status := "exit " + strconv.Itoa(r.ExitCode)
		if r.Err != nil {
			status = "error: " + r.Err.Error()
		}
		tw.AppendRow(table.Row{i + 1, r.Command.Source, status, r.Duration.Round(time.Millisecond).String()})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	_, err := io.WriteString(w, tw.Render()+"\n")
	return err
}
