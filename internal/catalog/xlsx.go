package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXLoader reads the catalog from one worksheet of an Excel workbook.
// The first row is the header.
type XLSXLoader struct {
	path  string
	sheet string
}

func NewXLSXLoader(path, sheet string) *XLSXLoader {
	return &XLSXLoader{path: path, sheet: sheet}
}

func (l *XLSXLoader) Load(ctx context.Context) ([]RawRecord, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	if idx, err := f.GetSheetIndex(sheet); sheet == "" || err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyCatalog)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s has no header", ErrMissingColumn, sheet)
	}

	decoder, err := newRowDecoder(fmt.Sprintf("%s[%s]", filepath.Base(l.path), sheet), rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(cells) == 0 {
			continue
		}

		record, err := decoder.decode(i+2, cells)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: sheet %s has no rows", ErrEmptyCatalog, sheet)
	}

	return records, nil
}
