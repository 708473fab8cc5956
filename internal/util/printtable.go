package util

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// PrintTable writes rows padded into columns, the first row is the header.
// colorize, when not nil, wraps a cell after padding so escape codes do not skew widths.
func PrintTable(w io.Writer, table [][]string, colorize func(row, col int, cell string) string) {
	if len(table) == 0 {
		return
	}

	// Find the maximum width of each column
	maxWidths := make([]int, len(table[0]))
	for _, row := range table {
		for i, cell := range row {
			if i >= len(maxWidths) {
				maxWidths = append(maxWidths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > maxWidths[i] {
				maxWidths[i] = n
			}
		}
	}

	for r, row := range table {
		for i, cell := range row {
			padded := fmt.Sprintf("%-*s", maxWidths[i], cell)
			if colorize != nil {
				padded = colorize(r, i, padded)
			}
			fmt.Fprint(w, padded)
			if i < len(row)-1 {
				fmt.Fprint(w, "  ")
			}
		}
		fmt.Fprintln(w)
	}
}
