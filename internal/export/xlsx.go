// Package export writes processed documents to spreadsheets.
package export

import (
	"io"
	"reflect"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/insurawise/internal/model"
)

// Sheet names.
const (
	SummarySheet     = "Summary"
	DiagnosticsSheet = "Diagnostics"
)

var documentColumns = []string{"document_id", "filename", "category", "status", "pages", "processed_at"}

// SummaryColumns returns the Summary sheet header: document columns then
// the flat record fields in their canonical order.
func SummaryColumns() []string {
	cols := append([]string{}, documentColumns...)
	return append(cols, recordColumns()...)
}

func recordColumns() []string {
	t := reflect.TypeOf(model.VehicleRecord{})
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			cols = append(cols, name)
		}
	}
	return cols
}

func recordValues(rec model.VehicleRecord) []string {
	v := reflect.ValueOf(rec)
	out := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			out = append(out, f.String())
		case reflect.Pointer:
			if f.IsNil() {
				out = append(out, "")
			} else {
				out = append(out, f.Elem().String())
			}
		}
	}
	return out
}

// WriteSummaryXLSX writes one Summary row per document and one Diagnostics
// row per degraded document.
func WriteSummaryXLSX(w io.Writer, docs []model.Document) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	diagnostics, err := f.AddSheet(DiagnosticsSheet)
	if err != nil {
		return eris.Wrap(err, "export: add diagnostics sheet")
	}

	addRow(summary, SummaryColumns())
	addRow(diagnostics, []string{"document_id", "filename", "category", "diagnostic"})

	blank := make([]string, len(recordColumns()))
	for _, d := range docs {
		row := []string{
			d.ID,
			d.Filename,
			d.Category.String(),
			string(d.Status),
			"",
			d.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if rec, ok := d.Summary(); ok {
			row = append(row, recordValues(rec)...)
		} else {
			row = append(row, blank...)
		}
		cells := addRow(summary, row)
		cells[4].SetInt(d.Pages)

		if d.Status == model.StatusDegraded {
			addRow(diagnostics, []string{d.ID, d.Filename, d.Category.String(), d.Diagnostic})
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) []*xlsx.Cell {
	row := sheet.AddRow()
	cells := make([]*xlsx.Cell, len(values))
	for i, v := range values {
		cells[i] = row.AddCell()
		cells[i].SetString(v)
	}
	return cells
}
