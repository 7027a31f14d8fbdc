package tables

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	titleColor    = color.New(color.Bold, color.FgCyan)
	accentColor   = color.New(color.FgYellow)
	moneyColor    = color.New(color.FgGreen)
	progressColor = color.New(color.FgGreen)
	emptyColor    = color.New(color.FgWhite)
)

// Render writes the title, if any, and the table to w. Colors are dropped
// when color output is disabled.
func Render(w io.Writer, t Table) {
	if t.Title != "" {
		fmt.Fprintln(w, titleColor.Sprint(t.Title))
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	if len(t.Align) > 0 {
		tw.SetColumnAlignment(alignments(t.Align))
	}
	if !color.NoColor {
		headerColors := make([]tablewriter.Colors, len(t.Header))
		for i := range headerColors {
			headerColors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgYellowColor}
		}
		tw.SetHeaderColor(headerColors...)
	}

	for _, row := range t.Rows {
		line := make([]string, len(row))
		for i, cell := range row {
			line[i] = paint(cell)
		}
		tw.Append(line)
	}
	tw.Render()
}

func alignments(align []Align) []int {
	keys := make([]int, len(align))
	for i, a := range align {
		switch a {
		case AlignLeft:
			keys[i] = tablewriter.ALIGN_LEFT
		case AlignCenter:
			keys[i] = tablewriter.ALIGN_CENTER
		case AlignRight:
			keys[i] = tablewriter.ALIGN_RIGHT
		default:
			keys[i] = tablewriter.ALIGN_DEFAULT
		}
	}
	return keys
}

// paint colors every line of a cell separately so multi-line cells keep
// their color after the table splits them.
func paint(cell Cell) string {
	var c *color.Color
	switch cell.Tone {
	case ToneSwatch:
		swatch := Palette[cell.Swatch%len(Palette)]
		c = color.RGB(swatch.R, swatch.G, swatch.B)
	case ToneAccent:
		c = accentColor
	case ToneMoney:
		c = moneyColor
	case ToneProgress:
		return paintProgress(cell.Text)
	default:
		return cell.Text
	}

	lines := strings.Split(cell.Text, "\n")
	for i, line := range lines {
		lines[i] = c.Sprint(line)
	}
	return strings.Join(lines, "\n")
}

func paintProgress(bar string) string {
	filled := strings.Count(bar, progressFull)
	empty := strings.Count(bar, progressEmpty)
	rest := strings.TrimLeft(bar, progressFull+progressEmpty)
	return progressColor.Sprint(strings.Repeat(progressFull, filled)) +
		emptyColor.Sprint(strings.Repeat(progressEmpty, empty)) +
		rest
}
