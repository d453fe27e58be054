package catalog

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// loadXLSX reads the first sheet of an XLSX workbook. Header row is the
// first row; the remaining rows are coerced through the same path as CSV.
func loadXLSX(path string, opts LoadOptions) (*Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Kind: LoadUnreadable, Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &LoadError{Kind: LoadUnreadable, Err: errors.New("workbook has no sheets")}
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Kind: LoadUnreadable, Err: err}
	}
	if len(all) == 0 {
		return nil, &LoadError{Kind: LoadNoUsableRows}
	}

	codeIdx, descIdx, err := resolveColumns(all[0], opts)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(all)-1)
	for _, record := range all[1:] {
		if row, ok := rowFromRecord(record, codeIdx, descIdx); ok {
			rows = append(rows, row)
		}
	}
	return snapshotFromRows(rows)
}
