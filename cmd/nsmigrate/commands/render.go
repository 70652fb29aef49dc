package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/nsmigrate/internal/runner"
)

var (
	addColor  = color.New(color.FgGreen)
	delColor  = color.New(color.FgRed)
	hunkColor = color.New(color.FgCyan)
	headColor = color.New(color.Bold)
)

// writeDiff prints a unified diff with colored lines.
func writeDiff(w io.Writer, diff string) {
	for line := range strings.Lines(diff) {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			headColor.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addColor.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			delColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

// writeSummary prints one row per changed or failed file and the run totals.
func writeSummary(w io.Writer, report *runner.Report, dryRun bool) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Target", "Replaced", "Relocated", "Status"})

	rows := 0

	for _, res := range report.Results {
		if !res.Changed() && res.Err == nil {
			continue
		}

		target := ""
		if res.NewPath != "" {
			target = relTo(filepath.Dir(res.Path), res.NewPath)
		}

		status := res.Outcome()
		if res.Err != nil {
			status = res.Err.Error()
		}

		tbl.AppendRow(table.Row{res.Path, target, res.Stats.Replaced, res.Stats.Relocated, status})
		rows++
	}

	if rows > 0 {
		fmt.Fprintln(w, tbl.Render())
	}

	fmt.Fprintf(w, "%d files, %d changed, %d moved, %d failed; %d names replaced, %d declarations relocated (%s -> %s) in %s\n",
		report.Files, report.Changed, report.Moved, report.Failed, report.Replaced, report.Relocated,
		humanize.Bytes(uint64(max(report.BytesBefore, 0))), humanize.Bytes(uint64(max(report.BytesAfter, 0))),
		report.Duration.Round(time.Millisecond))

	if dryRun {
		fmt.Fprintln(w, "dry run: no files written")
	}
}

func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}

	return rel
}
