package printer

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/docctl/internal/models"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "documents"

// WriteXLSX saves docs as a spreadsheet: one row per document, an "id"
// column followed by the sorted top-level fields. Nested values are stored
// as JSON text.
func WriteXLSX(path string, docs []models.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	columns := fieldNames(docs)
	header := make([]any, 0, len(columns)+1)
	header = append(header, "id")
	for _, c := range columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, d := range docs {
		row := make([]any, 0, len(columns)+1)
		row = append(row, d.ID)
		for _, c := range columns {
			v, err := cellValue(d.Data[c])
			if err != nil {
				return fmt.Errorf("document %s field %s: %w", d.ID, c, err)
			}
			row = append(row, v)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func fieldNames(docs []models.Document) []string {
	seen := make(map[string]bool)
	for _, d := range docs {
		for k := range d.Data {
			seen[k] = true
		}
	}

	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func cellValue(v any) (any, error) {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}
