// Package report renders stored history trends for the history command.
package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wake/internal/data/history"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRun\tFiles\tUnused\tDeltaFiles\tDeltaUnused\tAdded\tRemoved\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.RunID,
			point.FileCount,
			point.UnusedTotal,
			point.DeltaFiles,
			point.DeltaUnused,
			strings.Join(point.Added, ","),
			strings.Join(point.Removed, ","),
		))
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// RenderTrendTable draws one bordered row per run with counts of added and
// removed symbols.
func RenderTrendTable(report history.TrendReport) string {
	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		}).
		Headers("RUN", "TIME", "FILES", "UNUSED", "DELTA", "ADDED", "REMOVED")

	for _, p := range report.Points {
		t.Row(
			shortRunID(p.RunID),
			p.Timestamp.Local().Format(time.DateTime),
			strconv.Itoa(p.FileCount),
			strconv.Itoa(p.UnusedTotal),
			signed(p.DeltaUnused),
			strconv.Itoa(len(p.Added)),
			strconv.Itoa(len(p.Removed)),
		)
	}

	return fmt.Sprintf("Project %s: %d runs\n%s\n", report.ProjectKey, report.ScanCount, t.String())
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
