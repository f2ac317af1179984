package report

import (
	"crossing-delta/internal/domain"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary aggregates a distance table. For the delta table the totals are
// the extra distance and time the closure costs across all addresses.
type Summary struct {
	Rows           int
	TotalMeters    int
	TotalSeconds   int
	MeanMeters     float64
	MeanSeconds    float64
	IncreasedCount int
	UnchangedCount int
	DecreasedCount int
}

func Summarize(t *domain.DistanceTable) Summary {
	var s Summary
	for _, r := range t.Rows() {
		m := r.Measurement
		s.Rows++
		s.TotalMeters += m.DistanceMeters
		s.TotalSeconds += m.DurationSeconds
		switch {
		case m.DurationSeconds > 0:
			s.IncreasedCount++
		case m.DurationSeconds < 0:
			s.DecreasedCount++
		default:
			s.UnchangedCount++
		}
	}
	if s.Rows > 0 {
		s.MeanMeters = float64(s.TotalMeters) / float64(s.Rows)
		s.MeanSeconds = float64(s.TotalSeconds) / float64(s.Rows)
	}
	return s
}

type Options struct {
	Style string
	// Limit caps the number of rows printed; 0 prints all of them.
	Limit int
}

// Render writes t as a box table followed by its summary.
func Render(w io.Writer, title string, t *domain.DistanceTable, opts Options) Summary {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(style(opts.Style))
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"LAT", "LONG", "DISTANCE (m)", "DURATION"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	for i, r := range t.Rows() {
		if opts.Limit > 0 && i == opts.Limit {
			tw.AppendRow(table.Row{"...", "", "", ""})
			break
		}
		tw.AppendRow(table.Row{
			domain.FormatDegrees(r.Coordinates.Lat),
			domain.FormatDegrees(r.Coordinates.Lon),
			r.Measurement.DistanceMeters,
			formatSeconds(r.Measurement.DurationSeconds),
		})
	}

	s := Summarize(t)
	tw.AppendFooter(table.Row{"TOTAL", fmt.Sprintf("%d rows", s.Rows), s.TotalMeters, formatSeconds(s.TotalSeconds)})
	tw.AppendFooter(table.Row{"MEAN", "", fmt.Sprintf("%.0f", s.MeanMeters), formatSeconds(int(s.MeanSeconds))})
	tw.Render()
	return s
}

func style(name string) table.Style {
	s := table.StyleDefault
	switch name {
	case "bold":
		s = table.StyleBold
	case "double":
		s = table.StyleDouble
	case "light":
		s = table.StyleLight
	case "round":
		s = table.StyleRounded
	}
	s.Format.Footer = text.FormatDefault
	return s
}

// formatSeconds keeps the sign so time saved reads as e.g. "-1m5s".
func formatSeconds(sec int) string {
	return (time.Duration(sec) * time.Second).String()
}
