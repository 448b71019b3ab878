package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/saadjs/kcal-balance/internal/app"
	"github.com/saadjs/kcal-balance/internal/model"
)

const SheetName = "Logs"

// Workbook stores records as rows of the Logs sheet in an .xlsx file, one
// row per record below a header row. The file is opened per operation and
// replaced wholesale on write.
type Workbook struct {
	path string
	opts Options
}

func OpenWorkbook(path string, opts Options) (*Workbook, error) {
	opts = opts.withDefaults()
	if strings.TrimSpace(path) == "" {
		return nil, connectionError("open workbook", fmt.Errorf("workbook path is required"))
	}
	if err := app.EnsureDir(path); err != nil {
		return nil, connectionError("prepare workbook path", err)
	}
	w := &Workbook{path: path, opts: opts}
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, connectionError("open workbook", err)
		}
		_ = f.Close()
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, connectionError("stat workbook", err)
	}
	opts.Logger.WithField("path", path).Debug("opened workbook store")
	return w, nil
}

func (w *Workbook) Append(rec model.Record) (model.Record, error) {
	out, err := w.AppendAll([]model.Record{rec})
	if err != nil {
		return rec, err
	}
	return out[0], nil
}

// AppendAll writes records below the last used row and saves once.
func (w *Workbook) AppendAll(records []model.Record) ([]model.Record, error) {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		rec, err := ensureID(rec)
		if err != nil {
			return nil, writeError("append record", err)
		}
		out = append(out, rec)
	}
	f, err := w.openForWrite()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, writeError("read sheet", err)
	}
	next := len(rows) + 1
	for i, rec := range out {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return nil, writeError("locate append row", err)
		}
		values := rowValues(rec)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, writeError("write row", err)
		}
	}
	if err := w.save(f); err != nil {
		return nil, err
	}
	w.opts.Logger.WithFields(logrus.Fields{"count": len(out), "first_row": next}).Debug("appended workbook rows")
	return out, nil
}

func (w *Workbook) LoadAll() ([]model.Record, error) {
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		return []model.Record{}, nil
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, connectionError("open workbook", err)
	}
	defer f.Close()

	rows, err := w.dataRows(f)
	if err != nil {
		return nil, readError("read sheet", err)
	}
	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec, warnings := DecodeRow(row.cells, len(records), w.opts.Location)
		for _, warn := range warnings {
			w.opts.Warn(warn)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (w *Workbook) DeleteAt(index int) error {
	return w.deleteRow(func(rows []sheetRow) (int, bool) {
		return index, index >= 0 && index < len(rows)
	}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index))
}

func (w *Workbook) DeleteByID(id string) error {
	id = strings.TrimSpace(id)
	return w.deleteRow(func(rows []sheetRow) (int, bool) {
		if id == "" {
			return 0, false
		}
		for i, row := range rows {
			if len(row.cells) > colID && strings.TrimSpace(row.cells[colID]) == id {
				return i, true
			}
		}
		return 0, false
	}, fmt.Errorf("%w: %s", ErrNotFound, id))
}

func (w *Workbook) Close() error {
	return nil
}

func (w *Workbook) deleteRow(find func([]sheetRow) (int, bool), missing error) error {
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		return writeError("delete record", missing)
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return connectionError("open workbook", err)
	}
	defer f.Close()

	rows, err := w.dataRows(f)
	if err != nil {
		return writeError("read sheet", err)
	}
	idx, ok := find(rows)
	if !ok {
		return writeError("delete record", missing)
	}
	if err := f.RemoveRow(SheetName, rows[idx].num); err != nil {
		return writeError("remove row", err)
	}
	return w.save(f)
}

// ensureFile creates the workbook with its Logs sheet and header row unless
// both already exist.
func (w *Workbook) ensureFile() error {
	if _, err := os.Stat(w.path); err == nil {
		f, err := excelize.OpenFile(w.path)
		if err != nil {
			return connectionError("open workbook", err)
		}
		idx, err := f.GetSheetIndex(SheetName)
		_ = f.Close()
		if err == nil && idx >= 0 {
			return nil
		}
	}
	f, err := w.openForWrite()
	if err != nil {
		return err
	}
	defer f.Close()
	return w.save(f)
}

// sheetRow is a non-blank data row and its 1-based sheet row number.
type sheetRow struct {
	num   int
	cells []string
}

func (w *Workbook) dataRows(f *excelize.File) ([]sheetRow, error) {
	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return []sheetRow{}, nil
	}
	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	out := make([]sheetRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 && hasHeader(rows) {
			continue
		}
		if isBlankRow(row) {
			continue
		}
		out = append(out, sheetRow{num: i + 1, cells: row})
	}
	return out, nil
}

func (w *Workbook) openForWrite() (*excelize.File, error) {
	var f *excelize.File
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
			_ = f.Close()
			return nil, writeError("create sheet", err)
		}
	} else {
		opened, err := excelize.OpenFile(w.path)
		if err != nil {
			return nil, connectionError("open workbook", err)
		}
		f = opened
	}
	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, writeError("find sheet", err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(SheetName); err != nil {
			_ = f.Close()
			return nil, writeError("create sheet", err)
		}
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, writeError("read sheet", err)
	}
	if len(rows) == 0 {
		header := append([]string(nil), Header...)
		if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
			_ = f.Close()
			return nil, writeError("write header", err)
		}
	}
	return f, nil
}

// save writes to a sibling temp file and renames it over the workbook so a
// failed write leaves the previous file intact.
func (w *Workbook) save(f *excelize.File) error {
	tmp := filepath.Join(filepath.Dir(w.path), "."+filepath.Base(w.path)+".tmp.xlsx")
	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return writeError("save workbook", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return writeError("replace workbook", err)
	}
	return nil
}

func rowValues(rec model.Record) []any {
	row := EncodeRow(rec)
	return []any{
		row[colDate],
		row[colTime],
		row[colCategory],
		row[colDescription],
		rec.Calories,
		row[colExerciseType],
		rec.DurationMinutes,
		rec.DistanceMiles,
		row[colID],
	}
}

func hasHeader(rows [][]string) bool {
	return len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), Header[0])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
