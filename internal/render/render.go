// Package render formats query results for human or machine consumption.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"duckgs/internal/domain"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// ValidateFormat rejects unknown output formats.
func ValidateFormat(format string) error {
	switch format {
	case "", FormatTable, FormatJSON, FormatCSV:
		return nil
	}
	return fmt.Errorf("unsupported output format %q: use 'table', 'json' or 'csv'", format)
}

// Renderer writes results to w in a fixed format.
type Renderer struct {
	w      io.Writer
	format string
}

// New creates a Renderer. An empty format defaults to table output.
func New(w io.Writer, format string) *Renderer {
	if format == "" {
		format = FormatTable
	}
	return &Renderer{w: w, format: format}
}

// Render writes the result in the renderer's format.
func (r *Renderer) Render(res *domain.Result) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(res)
	case FormatCSV:
		return r.renderCSV(res)
	default:
		return r.renderTable(res)
	}
}

func (r *Renderer) renderTable(res *domain.Result) error {
	// A post-processing step that produced bare text (to_csv, to_json)
	// yields a single "value" cell; print it raw instead of boxing it.
	if len(res.Columns) == 1 && res.Columns[0] == "value" && res.RowCount() == 1 {
		if s, ok := res.Rows[0][0].(string); ok {
			_, err := fmt.Fprintln(r.w, s)
			return err
		}
	}

	table := tablewriter.NewWriter(r.w)
	table.SetHeader(res.Columns)
	table.SetAutoFormatHeaders(false)
	for _, row := range res.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v)
		}
		table.Append(record)
	}
	table.Render()
	return nil
}

// renderJSON writes one JSON object per row, keyed by column name.
func (r *Renderer) renderJSON(res *domain.Result) error {
	enc := json.NewEncoder(r.w)
	for _, row := range res.Rows {
		obj := make(map[string]interface{}, len(res.Columns))
		for i, col := range res.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	return nil
}

func (r *Renderer) renderCSV(res *domain.Result) error {
	w := csv.NewWriter(r.w)
	if err := w.Write(res.Columns); err != nil {
		return err
	}
	for _, row := range res.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
