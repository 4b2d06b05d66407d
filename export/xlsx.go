package export

import (
	"errors"

	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/godems/sweep"
)

// Sheet names of WriteXLSX.
const (
	SheetLong  = "long"
	SheetShort = "short"
)

// WriteXLSX saves the long and short tables of a sweep as two sheets.
func WriteXLSX(path string, res *sweep.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := f.SetSheetName("Sheet1", SheetLong); err != nil {
		return err
	}
	if err := writeSheet(f, SheetLong, LongHeader(), LongRecords(res.Long)); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetShort); err != nil {
		return err
	}
	if err := writeSheet(f, SheetShort, ShortHeader(), ShortRecords(res.Short)); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, header []string, records [][]interface{}) error {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			return err
		}
	}
	return nil
}
