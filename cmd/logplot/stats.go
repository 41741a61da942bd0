package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/GKD-RM-Lab/logplot/src/series"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-field statistics of a log",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := opts.loadDataset(cmd)
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), data)
			return nil
		},
	}
}

func writeStats(w io.Writer, data *dataset) {
	_, _ = fmt.Fprintf(w, "%s: %d samples (%s)\n", data.logPath, data.set.Len(), data.variant.Name)
	_, _ = fmt.Fprintln(w, statsTable(data.set.Summarize(), data.variant.Field).Render())
}

func statsTable(rows []series.FieldSummary, label func(string) (variant.Field, bool)) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("field", "count", "min", "max", "mean", "p50", "p90", "last").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range rows {
		name := s.Field
		if f, ok := label(s.Field); ok && f.Label != "" {
			name = f.Label
		}
		t.Row(name, strconv.Itoa(s.Count), formatStat(s.Min), formatStat(s.Max), formatStat(s.Mean),
			formatStat(s.P50), formatStat(s.P90), formatStat(s.Last))
	}
	return t
}

func formatStat(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
