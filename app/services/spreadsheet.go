package services

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type of the workbooks written by WriteTable.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReadSheet reads the first sheet of a workbook. The first row is the header;
// every following non-empty row becomes a map keyed by the normalised header
// ("Admission No" -> "admission_no").
func ReadSheet(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.New("sheet is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = headerKey(h)
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v != "" {
				empty = false
			}
			rec[h] = v
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out, nil
}

func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

// WriteTable writes a single-sheet workbook with a header row.
func WriteTable(w io.Writer, sheet string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "name sheet")
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrapf(err, "write %s", cell)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrapf(err, "write %s", cell)
			}
		}
	}
	return errors.Wrap(f.Write(w), "write workbook")
}
