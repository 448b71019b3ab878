package service

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/store"
)

type FileFormat string

const (
	FormatJSON FileFormat = "json"
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
)

// ParseFileFormat reads an explicit format, falling back to the extension of
// path when value is empty.
func ParseFileFormat(value, path string) (FileFormat, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		v = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch v {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use json, csv or xlsx)", value)
	}
}

type ExportRecord struct {
	ID              string  `json:"id,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Calories        int     `json:"calories"`
	ExerciseType    string  `json:"exercise_type,omitempty"`
	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	DistanceMiles   float64 `json:"distance_miles,omitempty"`
}

type ExportData struct {
	ExportedAt string         `json:"exported_at"`
	Records    []ExportRecord `json:"records"`
}

type ImportMode string

const (
	// ImportModeSkip drops incoming records whose id already exists.
	ImportModeSkip ImportMode = "skip"
	// ImportModeFail aborts before writing anything when an id exists.
	ImportModeFail ImportMode = "fail"
)

func ParseImportMode(value string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ImportModeSkip:
		return ImportModeSkip, nil
	case ImportModeFail:
		return ImportModeFail, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (use skip or fail)", value)
	}
}

type ImportOptions struct {
	Mode     ImportMode
	DryRun   bool
	Location *time.Location
}

type ImportReport struct {
	Read     int                     `json:"read"`
	Imported int                     `json:"imported"`
	Skipped  int                     `json:"skipped"`
	Warnings []store.CoercionWarning `json:"warnings,omitempty"`
}

var ErrDuplicateID = errors.New("record id already exists")

func ToExportRecord(rec model.Record) ExportRecord {
	return ExportRecord{
		ID:              rec.ID,
		Date:            rec.DateKey(),
		Time:            rec.ClockString(),
		Category:        string(rec.Category),
		Description:     rec.Description,
		Calories:        rec.Calories,
		ExerciseType:    string(rec.ExerciseType),
		DurationMinutes: rec.DurationMinutes,
		DistanceMiles:   rec.DistanceMiles,
	}
}

func (e ExportRecord) row() []string {
	row := make([]string, len(store.Header))
	row[0] = e.Date
	row[1] = e.Time
	row[2] = e.Category
	row[3] = e.Description
	row[4] = strconv.Itoa(e.Calories)
	row[5] = e.ExerciseType
	row[6] = strconv.FormatFloat(e.DurationMinutes, 'f', -1, 64)
	row[7] = strconv.FormatFloat(e.DistanceMiles, 'f', -1, 64)
	row[8] = e.ID
	return row
}

// ExportRecords writes the full append-ordered snapshot to path.
func ExportRecords(records []model.Record, format FileFormat, path string, now time.Time) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("export path is required")
	}
	switch format {
	case FormatJSON:
		data := ExportData{ExportedAt: now.Format(time.RFC3339), Records: make([]ExportRecord, 0, len(records))}
		for _, rec := range records {
			data.Records = append(data.Records, ToExportRecord(rec))
		}
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal export json: %w", err)
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("write export file: %w", err)
		}
		return nil
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export csv: %w", err)
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := w.Write(store.Header); err != nil {
			return fmt.Errorf("write export csv header: %w", err)
		}
		for _, rec := range records {
			if err := w.Write(store.EncodeRow(rec)); err != nil {
				return fmt.Errorf("write export csv row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flush export csv: %w", err)
		}
		return nil
	case FormatXLSX:
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("replace export workbook: %w", err)
		}
		wb, err := store.OpenWorkbook(path, store.Options{})
		if err != nil {
			return err
		}
		defer wb.Close()
		_, err = wb.AppendAll(records)
		return err
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ReadRecords decodes an export file. Malformed fields are coerced and
// reported the same way store loads are.
func ReadRecords(path string, format FileFormat, loc *time.Location) ([]model.Record, []store.CoercionWarning, error) {
	warnings := make([]store.CoercionWarning, 0)
	collect := func(w store.CoercionWarning) { warnings = append(warnings, w) }

	var rows [][]string
	switch format {
	case FormatJSON:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read import file: %w", err)
		}
		var data ExportData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, nil, fmt.Errorf("parse import json: %w", err)
		}
		for _, r := range data.Records {
			rows = append(rows, r.row())
		}
	case FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open import csv: %w", err)
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		all, err := r.ReadAll()
		if err != nil {
			return nil, nil, fmt.Errorf("read import csv: %w", err)
		}
		if len(all) > 0 && len(all[0]) > 0 && strings.EqualFold(strings.TrimSpace(all[0][0]), store.Header[0]) {
			all = all[1:]
		}
		rows = all
	case FormatXLSX:
		wb, err := store.OpenWorkbook(path, store.Options{Location: loc, Warn: collect})
		if err != nil {
			return nil, nil, err
		}
		defer wb.Close()
		records, err := wb.LoadAll()
		if err != nil {
			return nil, nil, err
		}
		return records, warnings, nil
	default:
		return nil, nil, fmt.Errorf("unsupported import format %q", format)
	}

	records := make([]model.Record, 0, len(rows))
	for i, row := range rows {
		rec, ws := store.DecodeRow(row, i, loc)
		warnings = append(warnings, ws...)
		records = append(records, rec)
	}
	return records, warnings, nil
}

// ImportRecords appends the records of an export file to dst, after the
// records already there.
func ImportRecords(dst store.Store, path string, format FileFormat, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	mode := opts.Mode
	if mode == "" {
		mode = ImportModeSkip
	}
	incoming, warnings, err := ReadRecords(path, format, opts.Location)
	if err != nil {
		return report, err
	}
	report.Read = len(incoming)
	report.Warnings = warnings

	existing, err := dst.LoadAll()
	if err != nil {
		return report, err
	}
	ids := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		if rec.ID != "" {
			ids[rec.ID] = struct{}{}
		}
	}

	pending := make([]model.Record, 0, len(incoming))
	for _, rec := range incoming {
		if rec.ID != "" {
			if _, dup := ids[rec.ID]; dup {
				if mode == ImportModeFail {
					return report, fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
				}
				report.Skipped++
				continue
			}
			ids[rec.ID] = struct{}{}
		}
		pending = append(pending, rec)
	}
	if opts.DryRun {
		report.Imported = len(pending)
		return report, nil
	}
	saved, err := store.AppendAll(dst, pending)
	report.Imported = len(saved)
	if err != nil {
		return report, err
	}
	return report, nil
}
