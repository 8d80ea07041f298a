package output

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// BarItem is one labelled value of a horizontal bar chart.
type BarItem struct {
	Label string
	Value float64
	// Color is an optional hex color for the bar.
	Color string
}

// BarChart renders items as horizontal bars scaled against ceiling. Values
// above ceiling fill the whole width.
func BarChart(items []BarItem, ceiling float64, width int, format func(float64) string) string {
	if len(items) == 0 {
		return ""
	}
	if width <= 0 {
		width = 40
	}
	if ceiling <= 0 {
		ceiling = 1
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.0f", v) }
	}

	labelWidth := 0
	for _, it := range items {
		labelWidth = max(labelWidth, visualLen(it.Label))
	}

	var sb strings.Builder
	for _, it := range items {
		filled := int(it.Value / ceiling * float64(width))
		if it.Value > 0 && filled == 0 {
			filled = 1
		}
		filled = min(max(filled, 0), width)
		bar := SubjectStyle(it.Color).Render(strings.Repeat("█", filled))
		fmt.Fprintf(&sb, " %s %s%s %s\n",
			align(it.Label, labelWidth, false),
			bar,
			strings.Repeat(" ", width-filled),
			StyleMuted.Render(format(it.Value)))
	}
	return sb.String()
}

var heatShades = []string{"·", "░", "▒", "▓", "█"}

// Heatmap renders a rows-by-hour grid, shading each cell relative to peak,
// the largest cell. rowLabels must have one entry per row.
func Heatmap(grid [7][24]float64, peak float64, rowLabels [7]string) string {
	var sb strings.Builder
	sb.WriteString("     ")
	for h := 0; h < 24; h += 3 {
		fmt.Fprintf(&sb, "%-3d", h)
	}
	sb.WriteString("\n")
	for r, row := range grid {
		fmt.Fprintf(&sb, " %-3s ", rowLabels[r])
		for _, v := range row {
			sb.WriteString(shade(v, peak))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func shade(v, peak float64) string {
	if v <= 0 || peak <= 0 {
		return StyleMuted.Render(heatShades[0])
	}
	idx := 1 + int(v/peak*float64(len(heatShades)-2)+0.5)
	idx = min(idx, len(heatShades)-1)
	return StyleSuccess.Render(heatShades[idx])
}

// LineChart plots data as an ASCII line chart. Empty data renders a muted
// placeholder.
func LineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return StyleMuted.Render("No data available")
	}
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	// A single point has no slope to draw.
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
