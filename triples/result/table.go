package result

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// FormatTable renders rows as a markdown table over the given projected
// columns, in the teacher's table-formatting style (tablewriter with the
// markdown renderer).
func FormatTable(columns []string, rows []Row) string {
	if len(rows) == 0 {
		return "_No rows_"
	}

	sb := &strings.Builder{}

	alignment := make([]tw.Align, len(columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(sb,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(columns)

	for _, row := range rows {
		byVar := make(map[string]string, len(row))
		for _, b := range row {
			byVar[string(b.Var)] = b.Term.String()
		}
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = byVar[col]
		}
		table.Append(cells)
	}

	table.Render()
	sb.WriteString("\n_")
	sb.WriteString(pluralRows(len(rows)))
	sb.WriteString("_\n")

	return sb.String()
}

func pluralRows(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}
