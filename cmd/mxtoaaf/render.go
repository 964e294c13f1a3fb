package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"mxtoaaf/internal/batch"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable draws rows under headers. Rows shorter than the header are
// padded; cells wider than maxWidth (when > 0) wrap.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment, maxWidth int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    maxWidth,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderSummary(out io.Writer, summary batch.Summary) {
	if failures := summary.Failures(); len(failures) > 0 {
		rows := make([][]string, 0, len(failures))
		for _, job := range failures {
			rows = append(rows, []string{filepath.Base(job.SourcePath), job.ErrorMessage})
		}
		fmt.Fprintln(out, renderTable([]string{"File", "Error"}, rows, nil, 80))
	}
	fmt.Fprintf(out, "✓ Success: %d\n", summary.SuccessCount)
	fmt.Fprintf(out, "✗ Failed: %d\n", summary.FailedCount)
	fmt.Fprintf(out, "⊘ Skipped: %d\n", summary.SkippedCount)
	if summary.Cancelled {
		fmt.Fprintf(out, "Cancelled: %d file(s) not processed\n", summary.CancelledCount)
	}
	fmt.Fprintf(out, "Duration: %.1fs\n", summary.TotalDuration.Seconds())
	fmt.Fprintf(out, "Output: %s\n", summary.OutputRoot)
}
