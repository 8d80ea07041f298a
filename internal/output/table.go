package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// Table renders rows of study data under a bold header and a rule. Cells may
// already carry lipgloss styling; widths are measured on printed text.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	right   []bool
}

// NewTable starts a table with the given column headers.
func NewTable(headers ...string) *Table {
	t := &Table{
		headers: headers,
		widths:  make([]int, len(headers)),
		right:   make([]bool, len(headers)),
	}
	for i, h := range headers {
		t.widths[i] = visualLen(h)
	}
	return t
}

// AlignRight right-aligns the given column indexes, typically numbers such
// as minutes or XP. Out-of-range indexes are ignored.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.right) {
			t.right[c] = true
		}
	}
	return t
}

// AddRow appends a row. Missing trailing values render empty and extra
// values are dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	for i, v := range row {
		t.widths[i] = max(t.widths[i], visualLen(v))
	}
	t.rows = append(t.rows, row)
}

// Render returns the table as text, one line per row plus header and rule.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	head := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	rule := make([]string, len(t.widths))
	for i, w := range t.widths {
		rule[i] = StyleMuted.Render(strings.Repeat("─", w))
	}

	var sb strings.Builder
	t.writeLine(&sb, t.headers, head.Render)
	sb.WriteString(strings.Join(rule, columnGap))
	sb.WriteString("\n")
	for _, row := range t.rows {
		t.writeLine(&sb, row, nil)
	}
	return sb.String()
}

func (t *Table) writeLine(sb *strings.Builder, cells []string, style func(...string) string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteString(columnGap)
		}
		c = align(c, t.widths[i], t.right[i])
		if style != nil {
			c = style(c)
		}
		sb.WriteString(c)
	}
	sb.WriteString("\n")
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return t.Render()
}

// Print writes the table to stdout.
func (t *Table) Print() {
	fmt.Print(t.Render())
}

// visualLen is the printed width of s, ignoring ANSI escape sequences.
func visualLen(s string) int {
	return lipgloss.Width(s)
}

// align pads s with spaces to width printed columns, on the left when right
// is set. Wider strings are returned unchanged.
func align(s string, width int, right bool) string {
	gap := width - visualLen(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
