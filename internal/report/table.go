package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bjornrobertsson/coderttl/internal/config"
	"github.com/bjornrobertsson/coderttl/internal/util"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Row struct {
	Cells []string
	Level Level
}

// Table is a titled grid, the Level of a row colors its last cell.
type Table struct {
	Title   string
	Columns []string
	Rows    []Row
}

func NewTable(title string, columns ...string) *Table {
	return &Table{
		Title:   title,
		Columns: columns,
	}
}

func (t *Table) Add(level Level, cells ...string) {
	t.Rows = append(t.Rows, Row{Cells: cells, Level: level})
}

// Records returns one map per row keyed by column name.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row.Cells) {
				rec[col] = row.Cells[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

type document struct {
	Title string              `json:"title" yaml:"title" toml:"title"`
	Rows  []map[string]string `json:"rows" yaml:"rows" toml:"rows"`
}

// Render writes the table in the requested format.
func Render(c *Console, t *Table, format config.Output) error {
	w := c.Writer()

	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Title: t.Title, Rows: t.Records()})

	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(document{Title: t.Title, Rows: t.Records()})

	case config.OutputTOML:
		return toml.NewEncoder(w).Encode(document{Title: t.Title, Rows: t.Records()})

	case config.OutputTable, "":
		renderTable(c, w, t)
		return nil
	}

	return fmt.Errorf("unknown output format %q", format)
}

func renderTable(c *Console, w io.Writer, t *Table) {
	if t.Title != "" {
		c.Heading("%s", t.Title)
	}

	data := make([][]string, 0, len(t.Rows)+1)
	data = append(data, t.Columns)
	for _, row := range t.Rows {
		data = append(data, row.Cells)
	}

	last := len(t.Columns) - 1
	util.PrintTable(w, data, func(r, col int, cell string) string {
		if r == 0 {
			if c.ColorEnabled() {
				return ColorBold + cell + ColorReset
			}
			return cell
		}
		if col == last {
			return c.Paint(t.Rows[r-1].Level, cell)
		}
		return cell
	})
}
