package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/ossim/ossim/sim"
)

// useColor enables ANSI cell backgrounds in rendered tables.
var useColor bool

// cellColors maps display colors onto terminal attributes. Only colors with
// a fixed meaning (highlight, admin, free) are rendered; owner colors are not.
func cellColors(row []sim.Cell) []tablewriter.Colors {
	out := make([]tablewriter.Colors, len(row))
	for i, c := range row {
		switch c.Color {
		case sim.Yellow:
			out[i] = tablewriter.Colors{tablewriter.BgYellowColor, tablewriter.FgBlackColor}
		case sim.Gray, sim.LightGray:
			out[i] = tablewriter.Colors{tablewriter.BgHiBlackColor}
		case sim.Red:
			out[i] = tablewriter.Colors{tablewriter.FgRedColor}
		default:
			out[i] = tablewriter.Colors{}
		}
	}
	return out
}

// renderTable writes one titled header/rows snapshot.
func renderTable(w io.Writer, title string, header []string, rows [][]sim.Cell) {
	_, _ = fmt.Fprintln(w, title)
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	for _, row := range rows {
		if useColor {
			table.Rich(sim.Values(row), cellColors(row))
		} else {
			table.Append(sim.Values(row))
		}
	}
	table.Render()
	_, _ = fmt.Fprintln(w)
}

// renderPairs writes a two-column key/value table.
func renderPairs(w io.Writer, title string, pairs [][2]string) {
	_, _ = fmt.Fprintln(w, title)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoFormatHeaders(false)
	for _, p := range pairs {
		table.Append([]string{p[0], p[1]})
	}
	table.Render()
	_, _ = fmt.Fprintln(w)
}
